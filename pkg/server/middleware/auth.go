package middleware

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tutorapp/tutorapp/pkg/handlers/apierr"
	"github.com/tutorapp/tutorapp/pkg/services/auth"
)

// Authenticate rejects requests without a valid bearer token and attaches
// the tutor the token belongs to.
func Authenticate(authorizer auth.Authorizer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			token, ok := bearerToken(req)
			if !ok {
				apierr.Write(w, req, http.StatusUnauthorized, apierr.MsgUnauthorized)
				return
			}

			tutorID, err := authorizer.ResolveTutor(req.Context(), token)
			if err != nil {
				zerolog.Ctx(req.Context()).Debug().Err(err).Msg("token rejected")
				apierr.Write(w, req, http.StatusUnauthorized, apierr.MsgUnauthorized)
				return
			}

			ctx := auth.WithTutor(req.Context(), tutorID)
			logger := zerolog.Ctx(ctx).With().Str("caller", tutorID).Logger()
			next.ServeHTTP(w, req.WithContext(logger.WithContext(ctx)))
		})
	}
}

func bearerToken(req *http.Request) (string, bool) {
	scheme, token, ok := strings.Cut(req.Header.Get("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
