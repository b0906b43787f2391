// Package view はクライアントの各画面が保持する一覧と送信状態を扱います。
// 一覧は画面ごとの一時的なコピーであり、画面間で共有しません。
package view

import (
	"errors"
	"sync/atomic"
)

// ErrSubmissionInFlight は同じ画面で送信中に再度送信した場合に返却されます。
var ErrSubmissionInFlight = errors.New("view: submission already in flight")

// guard は画面ごとの送信中フラグです。待ち合わせは行いません。
type guard struct {
	busy atomic.Bool
}

func (g *guard) run(fn func() error) error {
	if !g.busy.CompareAndSwap(false, true) {
		return ErrSubmissionInFlight
	}
	defer g.busy.Store(false)
	return fn()
}

// Busy は送信中かを返します。
func (g *guard) Busy() bool {
	return g.busy.Load()
}
