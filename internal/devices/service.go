package devices

import (
	"context"
	"database/sql"
	"time"
)

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type store interface {
	Touch(ctx context.Context, sn string, at time.Time) error
	List(ctx context.Context) ([]deviceRow, error)
}

// Service は端末レジストリ。状態は読み出し時に導出する。
type Service struct {
	store    store
	clock    Clock
	liveness Liveness
}

func NewService(db *sql.DB, window time.Duration) *Service {
	return newService(NewStore(db), realClock{}, window)
}

func newService(st store, clock Clock, window time.Duration) *Service {
	return &Service{store: st, clock: clock, liveness: Liveness{Window: window}}
}

// Touch は sn の最終通信時刻を現在時刻にする。sn は検証しない（空文字も1台として扱う）。
func (s *Service) Touch(ctx context.Context, sn string) error {
	return s.store.Touch(ctx, sn, s.clock.Now().UTC())
}

// List は全端末を返す。now は1回だけ取得し全行の判定に使う。
func (s *Service) List(ctx context.Context) ([]Device, error) {
	rows, err := s.store.List(ctx)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now().UTC()
	out := make([]Device, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel(s.liveness, now))
	}
	return out, nil
}
