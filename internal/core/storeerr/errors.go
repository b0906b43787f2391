// Package storeerr はレコードストア操作のエラー分類を提供します。
package storeerr

import (
	"errors"
	"fmt"
)

// ErrNotFound は指定された ID のレコードが存在しない場合に返却されます。
var ErrNotFound = errors.New("record not found")

// Op はストア操作の種類です。
type Op string

const (
	OpCreate Op = "create"
	OpList   Op = "list"
	OpGet    Op = "get"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
	OpBegin  Op = "begin"
	OpCommit Op = "commit"
)

// ReadError はコレクションの取得に失敗したことを表します。
type ReadError struct {
	Collection string
	Op         Op
	Err        error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("store read %s/%s: %v", e.Collection, e.Op, e.Err)
}

func (e *ReadError) Unwrap() error { return e.Err }

// WriteError は作成・更新・削除に失敗したことを表します。
type WriteError struct {
	Collection string
	Op         Op
	Err        error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("store write %s/%s: %v", e.Collection, e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }

// Read は err を ReadError で包みます。nil と既に分類済みのエラーはそのまま返します。
func Read(collection string, op Op, err error) error {
	if err == nil || isClassified(err) {
		return err
	}
	return &ReadError{Collection: collection, Op: op, Err: err}
}

// Write は err を WriteError で包みます。
func Write(collection string, op Op, err error) error {
	if err == nil || isClassified(err) {
		return err
	}
	return &WriteError{Collection: collection, Op: op, Err: err}
}

// AsWrite は更新処理の途中で発生した読み取り失敗を WriteError として分類し直します。
func AsWrite(collection string, op Op, err error) error {
	var re *ReadError
	if errors.As(err, &re) {
		return &WriteError{Collection: collection, Op: op, Err: re.Err}
	}
	return Write(collection, op, err)
}

// IsRead は err が ReadError を含むかを判定します。
func IsRead(err error) bool {
	var re *ReadError
	return errors.As(err, &re)
}

// IsWrite は err が WriteError を含むかを判定します。
func IsWrite(err error) bool {
	var we *WriteError
	return errors.As(err, &we)
}

func isClassified(err error) bool {
	return IsRead(err) || IsWrite(err)
}
