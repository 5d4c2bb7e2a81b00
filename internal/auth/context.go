package auth

import (
	"context"

	"github.com/fekuna/omnipos-stock-app/internal/model"
	"google.golang.org/grpc/metadata"
)

type userKey struct{}

// WithUser stores the signed-in user on ctx, typically in the bridge
// middleware after the guard let the request through.
func WithUser(ctx context.Context, u *model.User) context.Context {
	return context.WithValue(ctx, userKey{}, u)
}

func UserFromContext(ctx context.Context) (*model.User, bool) {
	u, ok := ctx.Value(userKey{}).(*model.User)
	return u, ok && u != nil
}

// GetCompanyID reads the company from the user on ctx and falls back to
// the x-company-id gRPC metadata header.
func GetCompanyID(ctx context.Context) string {
	if u, ok := UserFromContext(ctx); ok {
		return u.CompanyID
	}

	md, ok := metadata.FromIncomingContext(ctx)
	if ok {
		if val := md.Get("x-company-id"); len(val) > 0 {
			return val[0]
		}
	}
	return ""
}
