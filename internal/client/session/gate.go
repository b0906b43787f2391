// Package session はクライアント側の認証状態を管理します。
package session

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/ogurasousui/engineer-admin/internal/core/auth"
	"github.com/ogurasousui/engineer-admin/internal/platform/logger"
)

// State は認証ゲートの状態です。
type State string

const (
	StateUnknown         State = "unknown"
	StateAuthenticated   State = "authenticated"
	StateUnauthenticated State = "unauthenticated"
)

// Snapshot は購読者へ通知される状態です。Identity は authenticated の場合のみ設定されます。
type Snapshot struct {
	State    State
	Identity *auth.Identity
}

// Listener は状態の通知を受け取ります。Gate のメソッドを同期的に呼び出してはいけません。
type Listener func(Snapshot)

// Gate は認証状態を保持し、変化を購読者へ順に通知します。
type Gate struct {
	svc    auth.UseCase
	tokens TokenStore
	log    *logger.Logger

	// notifyMu は状態の更新と通知を直列化します。
	notifyMu sync.Mutex

	mu     sync.Mutex
	snap   Snapshot
	token  string
	subs   map[int]Listener
	nextID int
}

// NewGate は unknown 状態の Gate を生成します。tokens が nil の場合、トークンは保存されません。
func NewGate(svc auth.UseCase, tokens TokenStore, log *logger.Logger) *Gate {
	if tokens == nil {
		tokens = noopTokenStore{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &Gate{
		svc:    svc,
		tokens: tokens,
		log:    log,
		snap:   Snapshot{State: StateUnknown},
		subs:   make(map[int]Listener),
	}
}

// Subscribe は fn を登録し、現在の状態を直ちに通知します。戻り値で登録を解除します。
func (g *Gate) Subscribe(fn Listener) (unsubscribe func()) {
	g.notifyMu.Lock()
	defer g.notifyMu.Unlock()

	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.subs[id] = fn
	snap := g.snap
	g.mu.Unlock()

	fn(snap)

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			delete(g.subs, id)
			g.mu.Unlock()
		})
	}
}

// Current は現在の状態を返します。
func (g *Gate) Current() Snapshot {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.snap
}

// Token は現在のトークンを返します。未認証の場合は空文字列です。
func (g *Gate) Token() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.token
}

// SignIn はサインインし、成功すると authenticated を通知します。失敗時は状態を変更しません。
func (g *Gate) SignIn(ctx context.Context, email, password string) error {
	res, err := g.svc.SignIn(ctx, email, password)
	if err != nil {
		return err
	}
	g.establish(res)
	return nil
}

// SignUp はアカウントを作成してサインインします。失敗時は状態を変更しません。
func (g *Gate) SignUp(ctx context.Context, email, password string) error {
	res, err := g.svc.SignUp(ctx, email, password)
	if err != nil {
		return err
	}
	g.establish(res)
	return nil
}

// SignOut はサーバー側のセッションを破棄し、unauthenticated を通知します。
// サーバー呼び出しが失敗してもローカルの状態は破棄され、そのエラーが返ります。
func (g *Gate) SignOut(ctx context.Context) error {
	err := g.svc.SignOut(ctx, g.Token())
	g.clear()
	return err
}

// Restore は保存済みのトークンを検証し、unknown 状態を解決します。
func (g *Gate) Restore(ctx context.Context) error {
	token, err := g.tokens.Load()
	if err != nil {
		g.set(Snapshot{State: StateUnauthenticated}, "")
		return err
	}
	if token == "" {
		g.set(Snapshot{State: StateUnauthenticated}, "")
		return nil
	}

	id, err := g.svc.Authenticate(ctx, token)
	if err != nil {
		var authErr *auth.Error
		if errors.As(err, &authErr) {
			g.clear()
			return nil
		}
		g.set(Snapshot{State: StateUnauthenticated}, "")
		return err
	}

	g.set(Snapshot{State: StateAuthenticated, Identity: id}, token)
	return nil
}

func (g *Gate) establish(res *auth.SignInResult) {
	if err := g.tokens.Save(res.Token); err != nil {
		g.log.Warn().Err(err).Msg("failed to persist session token")
	}
	id := res.Identity
	g.set(Snapshot{State: StateAuthenticated, Identity: &id}, res.Token)
}

func (g *Gate) clear() {
	if err := g.tokens.Clear(); err != nil {
		g.log.Warn().Err(err).Msg("failed to remove session token")
	}
	g.set(Snapshot{State: StateUnauthenticated}, "")
}

func (g *Gate) set(snap Snapshot, token string) {
	g.notifyMu.Lock()
	defer g.notifyMu.Unlock()

	g.mu.Lock()
	changed := !sameSnapshot(g.snap, snap)
	g.snap = snap
	g.token = token
	listeners := g.listeners()
	g.mu.Unlock()

	if !changed {
		return
	}
	for _, fn := range listeners {
		fn(snap)
	}
}

// listeners は登録順に並べた購読者を返します。g.mu を保持して呼び出します。
func (g *Gate) listeners() []Listener {
	ids := make([]int, 0, len(g.subs))
	for id := range g.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	out := make([]Listener, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.subs[id])
	}
	return out
}

func sameSnapshot(a, b Snapshot) bool {
	if a.State != b.State {
		return false
	}
	if a.Identity == nil || b.Identity == nil {
		return a.Identity == b.Identity
	}
	return *a.Identity == *b.Identity
}
