package users

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"ADMS-backend/internal/commands"
	"ADMS-backend/internal/platform/apierr"
	"ADMS-backend/internal/platform/db"
)

// Enqueuer はユーザー登録と同じトランザクションで端末コマンドを積む
type Enqueuer interface {
	EnqueueTx(ctx context.Context, tx db.DBTX, sn, payload string) (*commands.CommandResponse, error)
}

type Service struct {
	db    db.TxBeginner
	store *Store
	queue Enqueuer
	now   func() time.Time
}

func NewService(conn *sql.DB, queue Enqueuer) *Service {
	return &Service{db: conn, store: NewStore(conn), queue: queue, now: time.Now}
}

// POST /users
// ユーザー行とコマンド行は同じ Tx で書き、どちらかが失敗したら両方残さない
func (s *Service) Create(ctx context.Context, req CreateUserRequest) (*CreateUserResponse, error) {
	pin := strings.TrimSpace(req.PIN)
	name := strings.TrimSpace(req.Name)
	if pin == "" {
		return nil, apierr.ErrInvalid("pin is required")
	}
	if name == "" {
		return nil, apierr.ErrInvalid("name is required")
	}
	if utf8.RuneCountInString(pin) > db.MaxPINLength {
		return nil, apierr.ErrInvalid(fmt.Sprintf("pin must be at most %d characters", db.MaxPINLength))
	}
	if utf8.RuneCountInString(name) > db.MaxNameLength {
		return nil, apierr.ErrInvalid(fmt.Sprintf("name must be at most %d characters", db.MaxNameLength))
	}

	u := &User{PIN: pin, Name: name, CreatedAt: s.now().UTC()}
	out := &CreateUserResponse{}

	err := db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		if err := s.store.WithTx(tx).Insert(ctx, u); err != nil {
			return err
		}
		if req.DeviceSN == nil || *req.DeviceSN == "" {
			return nil
		}
		cmd, err := s.queue.EnqueueTx(ctx, tx, *req.DeviceSN, UserInfoCommand(u.PIN, u.Name))
		if err != nil {
			return err
		}
		out.CommandSent = true
		out.CommandULID = &cmd.CommandULID
		return nil
	})
	if err != nil {
		return nil, err
	}
	out.User = u.toDTO()
	return out, nil
}

// GET /users
func (s *Service) List(ctx context.Context) (ListUsersResponse, error) {
	list, err := s.store.List(ctx)
	if err != nil {
		return ListUsersResponse{}, err
	}
	res := ListUsersResponse{Users: make([]UserResponse, 0, len(list))}
	for _, u := range list {
		res.Users = append(res.Users, u.toDTO())
	}
	return res, nil
}
