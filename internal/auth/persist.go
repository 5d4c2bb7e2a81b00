package auth

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/fekuna/omnipos-stock-app/internal/model"
	"github.com/fekuna/omnipos-stock-app/internal/storage"
	"golang.org/x/sync/errgroup"
)

// Persister keeps the session in durable storage: the access token and
// user profile in the plain store, the refresh token in the secure one.
type Persister struct {
	plain  storage.Store
	secure storage.Store
}

func NewPersister(plain, secure storage.Store) *Persister {
	return &Persister{plain: plain, secure: secure}
}

func (p *Persister) Save(ctx context.Context, st State) error {
	userData := ""
	if st.User != nil {
		b, err := json.Marshal(st.User)
		if err != nil {
			return fmt.Errorf("encode user: %w", err)
		}
		userData = string(b)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { return p.plain.Set(gctx, storage.KeyAccessToken, st.Token) })
	g.Go(func() error { return p.plain.Set(gctx, storage.KeyUserData, userData) })
	g.Go(func() error { return p.secure.Set(gctx, storage.KeyRefreshToken, st.RefreshToken) })
	return g.Wait()
}

// SaveUser rewrites only the stored profile.
func (p *Persister) SaveUser(ctx context.Context, u *model.User) error {
	if u == nil {
		return p.plain.Delete(ctx, storage.KeyUserData)
	}
	b, err := json.Marshal(u)
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return p.plain.Set(ctx, storage.KeyUserData, string(b))
}

// Load reads the three keys concurrently. Missing keys come back empty.
func (p *Persister) Load(ctx context.Context) (model.Credentials, error) {
	var token, userData, refresh string

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		token, err = get(gctx, p.plain, storage.KeyAccessToken)
		return err
	})
	g.Go(func() (err error) {
		userData, err = get(gctx, p.plain, storage.KeyUserData)
		return err
	})
	g.Go(func() (err error) {
		refresh, err = get(gctx, p.secure, storage.KeyRefreshToken)
		return err
	})
	if err := g.Wait(); err != nil {
		return model.Credentials{}, err
	}

	creds := model.Credentials{Token: token, RefreshToken: refresh}
	if userData != "" {
		var u model.User
		if err := json.Unmarshal([]byte(userData), &u); err != nil {
			return model.Credentials{}, fmt.Errorf("decode %s: %w", storage.KeyUserData, err)
		}
		creds.User = &u
	}
	return creds, nil
}

// Clear removes all three keys, attempting every store even if one fails.
func (p *Persister) Clear(ctx context.Context) error {
	return errors.Join(
		p.plain.Delete(ctx, storage.KeyAccessToken, storage.KeyUserData),
		p.secure.Delete(ctx, storage.KeyRefreshToken),
	)
}

func get(ctx context.Context, s storage.Store, key string) (string, error) {
	v, err := s.Get(ctx, key)
	if errors.Is(err, storage.ErrNotFound) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("read %s: %w", key, err)
	}
	return v, nil
}
