package setlist

import (
	"errors"
	"fmt"
)

var (
	ErrNoArtist        = errors.New("アーティストを選択してください")
	ErrNoLiveEvent     = errors.New("ライブが選択されていません")
	ErrPreviewReadOnly = errors.New("共有されたセットリストは編集できません")
	ErrDiscardDeclined = errors.New("未保存の変更があります")
	ErrIndexOutOfRange = errors.New("index out of range")
	ErrEmptyLibrary    = errors.New("ライブラリに曲がありません")
)

// ValidationError rejects user input before any state changes.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func invalid(field, msg string) error {
	return &ValidationError{Field: field, Msg: msg}
}

// RemoteError reports a failed remote call after the local change has
// already been applied.
type RemoteError struct {
	Op  string
	Err error
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RemoteError) Unwrap() error {
	return e.Err
}
