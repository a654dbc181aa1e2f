package main

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"setlist-service/internal/export"
	"setlist-service/internal/share"
)

// tokenArg accepts either a bare token or a full share link.
func tokenArg(raw string) string {
	if u, err := url.Parse(raw); err == nil && u.RawQuery != "" {
		if s := u.Query().Get(share.QueryParam); s != "" {
			return s
		}
	}
	return strings.TrimSpace(raw)
}

func newDecodeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "decode <token|link>",
		Short: "Print the setlist carried by a share token as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := share.Decode(tokenArg(args[0]))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
}

func newExportCommand() *cobra.Command {
	var outPath string
	cmd := &cobra.Command{
		Use:   "export <token|link>",
		Short: "Render a shared setlist as a text sheet",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := share.Decode(tokenArg(args[0]))
			if err != nil {
				return err
			}
			ev := p.LiveEvent()
			sheet := export.Sheet(ev)
			if outPath == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), sheet)
				return err
			}
			if outPath == "-" {
				outPath = export.Filename(ev)
			}
			if err := os.WriteFile(outPath, []byte(sheet), 0o644); err != nil {
				return fmt.Errorf("write sheet: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVarP(&outPath, "output", "o", "", "Write to a file instead of stdout (\"-\" picks a name from the event)")
	return cmd
}

func newQRCommand() *cobra.Command {
	var (
		base string
		size int
	)
	cmd := &cobra.Command{
		Use:   "qr <token> <out.png>",
		Short: "Write a QR code for a share link",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			token := tokenArg(args[0])
			if _, err := share.Decode(token); err != nil {
				return err
			}
			link, err := share.Link(base, token)
			if err != nil {
				return err
			}
			png, err := share.QRCode(link, size)
			if err != nil {
				return err
			}
			if err := os.WriteFile(args[1], png, 0o644); err != nil {
				return fmt.Errorf("write qr: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s\n", link)
			return nil
		},
	}
	cmd.Flags().StringVar(&base, "base", "http://localhost:3010/share", "Base URL of the share page")
	cmd.Flags().IntVar(&size, "size", 256, "Image size in pixels")
	return cmd
}
