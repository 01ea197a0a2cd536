package commands

import (
	"context"
	"crypto/rand"
	"database/sql"
	"fmt"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"

	"ADMS-backend/internal/platform/apierr"
	"ADMS-backend/internal/platform/db"
)

// IdleCommand は配信するコマンドが無いときの応答
const IdleCommand = "OK"

// ===== インターフェース群 =====

type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

type IDGen interface {
	New() (string, error)
}

type ulidGen struct{}

func (ulidGen) New() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now().UTC()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

type queueStore interface {
	Insert(ctx context.Context, m *Command) error
	ClaimOldestPending(ctx context.Context, sn string, at time.Time) (*Command, error)
	CompleteSent(ctx context.Context, sn string, at time.Time) (int64, error)
	GetByULID(ctx context.Context, ulid string) (*Command, error)
	List(ctx context.Context, f Filter) ([]Command, int64, error)
}

// ===== Service本体 =====

// Service は端末ごとの FIFO コマンドキュー。
// 同じ端末に sent が複数同時に残ることは許容する（ポーリングごとに独立して払い出す）。
// 完了報告にはコマンドIDが無いので、報告1回でその端末の sent をすべて completed にする。
type Service struct {
	store queueStore
	clock Clock
	id    IDGen
	// tx 内で Enqueue するための生成関数
	withTx func(tx db.DBTX) queueStore
}

func NewService(conn *sql.DB) *Service {
	st := NewStore(conn)
	return &Service{
		store:  st,
		clock:  realClock{},
		id:     ulidGen{},
		withTx: func(tx db.DBTX) queueStore { return st.WithTx(tx) },
	}
}

// Enqueue は sn 宛てに pending のコマンドを追加する
func (s *Service) Enqueue(ctx context.Context, sn, payload string) (*CommandResponse, error) {
	return s.enqueue(ctx, s.store, sn, payload)
}

// EnqueueTx は呼び出し側のトランザクション上で Enqueue する
func (s *Service) EnqueueTx(ctx context.Context, tx db.DBTX, sn, payload string) (*CommandResponse, error) {
	return s.enqueue(ctx, s.withTx(tx), sn, payload)
}

func (s *Service) enqueue(ctx context.Context, st queueStore, sn, payload string) (*CommandResponse, error) {
	if sn == "" {
		return nil, apierr.ErrInvalid("device_sn is required")
	}
	if utf8.RuneCountInString(sn) > db.MaxSNLength {
		return nil, apierr.ErrInvalid(fmt.Sprintf("device_sn must be at most %d characters", db.MaxSNLength))
	}
	if payload == "" {
		return nil, apierr.ErrInvalid("command is required")
	}
	idStr, err := s.id.New()
	if err != nil {
		return nil, err
	}
	m := &Command{
		CommandULID: idStr,
		DeviceSN:    sn,
		Payload:     payload,
		CreatedAt:   s.clock.Now().UTC(),
	}
	if err := st.Insert(ctx, m); err != nil {
		return nil, err
	}
	resp := m.toDTO()
	return &resp, nil
}

// Dequeue は sn 宛ての最古の pending を sent にしてその payload を返す。
// 無ければ ok=false（エラーではない）。
func (s *Service) Dequeue(ctx context.Context, sn string) (payload string, ok bool, err error) {
	m, err := s.store.ClaimOldestPending(ctx, sn, s.clock.Now().UTC())
	if err != nil {
		return "", false, err
	}
	if m == nil {
		return "", false, nil
	}
	return m.Payload, true, nil
}

// Complete は sn 宛ての sent をすべて completed にし、件数を返す。0件なら何もしない。
func (s *Service) Complete(ctx context.Context, sn string) (int64, error) {
	return s.store.CompleteSent(ctx, sn, s.clock.Now().UTC())
}

func (s *Service) Get(ctx context.Context, commandULID string) (*CommandResponse, error) {
	if commandULID == "" {
		return nil, apierr.ErrInvalid("command_ulid is required")
	}
	m, err := s.store.GetByULID(ctx, commandULID)
	if err != nil {
		return nil, err
	}
	resp := m.toDTO()
	return &resp, nil
}

// GET /commands
func (s *Service) List(ctx context.Context, f Filter) (ListCommandsResponse, error) {
	if f.Status != nil && !f.Status.Valid() {
		return ListCommandsResponse{}, apierr.ErrInvalid("status must be pending, sent or completed")
	}
	if f.Limit <= 0 {
		f.Limit = DefaultPageLimit
	}
	if f.Limit > MaxPageLimit {
		f.Limit = MaxPageLimit
	}
	if f.Offset < 0 {
		return ListCommandsResponse{}, apierr.ErrInvalid("offset must be >= 0")
	}

	rows, total, err := s.store.List(ctx, f)
	if err != nil {
		return ListCommandsResponse{}, err
	}
	out := ListCommandsResponse{Commands: make([]CommandResponse, 0, len(rows)), Total: total}
	for _, m := range rows {
		out.Commands = append(out.Commands, m.toDTO())
	}
	return out, nil
}
