package register

import (
	"context"
	"encoding/json"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

type Request struct {
	Username string `json:"username"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
}

type Response struct {
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

type UserRegister interface {
	UserExists(ctx context.Context, username string) (bool, error)
	InsertUser(ctx context.Context, username, password, fullName string) error
}

func Register(log *slog.Logger, users UserRegister) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		const op = "handler.users.register.Register"

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

		username := strings.TrimSpace(req.Username)
		password := strings.TrimSpace(req.Password)
		fullName := strings.TrimSpace(req.FullName)

		if username == "" || password == "" || fullName == "" {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, Response{OK: false, Message: "Missing username/password/full_name"})
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()

		exists, err := users.UserExists(ctx, username)
		if err != nil {
			log.Error("User lookup failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{OK: false, Message: "Internal server error"})
			return
		}
		if exists {
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, Response{OK: false, Message: "Account already exists"})
			return
		}

		if err := users.InsertUser(ctx, username, password, fullName); err != nil {
			log.Error("Insert user failed", slog.String("error", err.Error()))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, Response{OK: false, Message: "Internal server error"})
			return
		}

		render.JSON(w, r, Response{OK: true, Message: "Registration successful"})
	}
}
