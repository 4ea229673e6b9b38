package login

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"sdvn-backend/internal/storage"
	"time"
)

type Request struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type Response struct {
	OK      bool          `json:"ok"`
	Message string        `json:"message,omitempty"`
	User    *storage.User `json:"user,omitempty"`
}

type UserLogin interface {
	GetUserByCredentials(ctx context.Context, username, password string) (*storage.User, error)
}

func Login(log *slog.Logger, users UserLogin) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.users.login.Login"

		log := log.With(
			slog.String("op", op),
			slog.String("request_id", middleware.GetReqID(r.Context())),
		)

		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			log.Error("Invalid JSON", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, Response{OK: false, Message: "Invalid JSON body"})
			return
		}

		if req.Username == "" || req.Password == "" {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, Response{OK: false, Message: "Missing username or password"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		user, err := users.GetUserByCredentials(ctx, req.Username, req.Password)
		if err != nil {
			log.Error("Login query failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{OK: false, Message: "Internal server error"})
			return
		}

		if user == nil {
			w.WriteHeader(http.StatusUnauthorized)
			render.JSON(w, r, Response{OK: false, Message: "Wrong username or password"})
			return
		}

		render.JSON(w, r, Response{OK: true, User: user})
	}
}
