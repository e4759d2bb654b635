package middleware

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pratik-mahalle/trainhub/internal/domain/entitlement"
	"github.com/pratik-mahalle/trainhub/internal/pkg/errors"
	"github.com/pratik-mahalle/trainhub/internal/pkg/logger"
	"github.com/pratik-mahalle/trainhub/internal/pkg/utils"
)

// RequireTrainingAccess guards training content behind an entitlement check.
// The training id comes from the {trainingID} or {id} URL parameter. Any
// resolver failure denies access.
func RequireTrainingAccess(svc entitlement.Service, log *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userID, ok := GetUserID(r)
			if !ok {
				utils.WriteError(w, errors.Unauthorized("Missing identity"))
				return
			}

			trainingID := chi.URLParam(r, "trainingID")
			if trainingID == "" {
				trainingID = chi.URLParam(r, "id")
			}
			if trainingID == "" {
				utils.WriteError(w, errors.BadRequest("Training ID is required"))
				return
			}

			decision, err := svc.Resolve(r.Context(), userID, trainingID, time.Time{})
			if err != nil {
				log.WithFields(map[string]interface{}{
					"user_id":     userID,
					"training_id": trainingID,
					"request_id":  GetRequestID(r),
				}).ErrorWithErr(err, "Entitlement check failed, denying access")
				utils.WriteError(w, errors.ServiceUnavailable("Unable to verify access"))
				return
			}
			if !decision.Granted {
				utils.WriteError(w, errors.Forbidden("No active subscription grants this training"))
				return
			}

			AddLogField(w, "subscription_id", decision.SubscriptionID)
			next.ServeHTTP(w, r)
		})
	}
}
