package server

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"mindcompanion/backend/internal/store"
)

const (
	roleAdmin      = "admin"
	bcryptCost     = 10
	maxPasswordLen = 72 // bcrypt input limit
)

type AuthUser struct {
	ID    string
	Email string
	Role  string
}

type signupRequest struct {
	Email        string  `json:"email"`
	Password     string  `json:"password"`
	Name         string  `json:"name"`
	Age          *int    `json:"age"`
	Gender       *string `json:"gender"`
	DailyRoutine *string `json:"dailyRoutine"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type adminSignupRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (a *App) signup(c *gin.Context) {
	var payload signupRequest
	if !mustJSON(c, &payload) {
		return
	}
	email := normalizeEmail(payload.Email)
	name := strings.TrimSpace(payload.Name)
	if email == "" || payload.Password == "" || name == "" {
		writeError(c, http.StatusBadRequest, "email, password and name are required")
		return
	}
	if len(payload.Password) > maxPasswordLen {
		writeError(c, http.StatusBadRequest, "password is too long")
		return
	}
	if payload.Age != nil && (*payload.Age < 0 || *payload.Age > 150) {
		writeError(c, http.StatusBadRequest, "age must be between 0 and 150")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcryptCost)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	user := store.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		Age:          payload.Age,
		Gender:       payload.Gender,
		DailyRoutine: payload.DailyRoutine,
		CreatedAt:    time.Now().UTC(),
		Interactions: []store.Interaction{},
	}
	if err := a.store.CreateUser(c.Request.Context(), user); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(c, http.StatusBadRequest, "Email already registered")
			return
		}
		writeError(c, http.StatusInternalServerError, "Failed to create user")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "User created"})
}

func (a *App) login(c *gin.Context) {
	var payload loginRequest
	if !mustJSON(c, &payload) {
		return
	}

	user, err := a.store.GetUserByEmail(c.Request.Context(), normalizeEmail(payload.Email))
	if err != nil || bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(payload.Password)) != nil {
		writeError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := a.signToken(user.ID, user.Email, "")
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user": gin.H{
			"id":    user.ID,
			"email": user.Email,
			"name":  user.Name,
		},
	})
}

func (a *App) adminSignup(c *gin.Context) {
	var payload adminSignupRequest
	if !mustJSON(c, &payload) {
		return
	}
	email := normalizeEmail(payload.Email)
	if email == "" || payload.Password == "" {
		writeError(c, http.StatusBadRequest, "email and password are required")
		return
	}
	if len(payload.Password) > maxPasswordLen {
		writeError(c, http.StatusBadRequest, "password is too long")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcryptCost)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to create admin")
		return
	}

	admin := store.Admin{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Role:         roleAdmin,
		CreatedAt:    time.Now().UTC(),
	}
	if err := a.store.CreateAdmin(c.Request.Context(), admin); err != nil {
		if errors.Is(err, store.ErrDuplicateEmail) {
			writeError(c, http.StatusBadRequest, "Email already registered")
			return
		}
		writeError(c, http.StatusInternalServerError, "Failed to create admin")
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "Admin created"})
}

func (a *App) adminLogin(c *gin.Context) {
	var payload loginRequest
	if !mustJSON(c, &payload) {
		return
	}

	admin, err := a.store.GetAdminByEmail(c.Request.Context(), normalizeEmail(payload.Email))
	if err != nil || bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(payload.Password)) != nil {
		writeError(c, http.StatusUnauthorized, "Invalid credentials")
		return
	}

	token, err := a.signToken(admin.ID, admin.Email, roleAdmin)
	if err != nil {
		writeError(c, http.StatusInternalServerError, "Failed to issue token")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"admin": gin.H{
			"id":    admin.ID,
			"email": admin.Email,
		},
	})
}

func (a *App) signToken(subject, email, role string) (string, error) {
	now := time.Now().UTC()
	claims := jwt.MapClaims{
		"sub":   subject,
		"email": email,
		"iat":   now.Unix(),
		"exp":   now.Add(time.Duration(a.cfg.TokenTTLMinutes) * time.Minute).Unix(),
	}
	if role != "" {
		claims["role"] = role
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(a.cfg.JWTSecret))
}

func (a *App) authMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if !strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
			writeError(c, http.StatusUnauthorized, "Access denied")
			return
		}
		tokenString := strings.TrimSpace(authHeader[len("Bearer "):])
		if tokenString == "" {
			writeError(c, http.StatusUnauthorized, "Access denied")
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
			if token.Method == nil || token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(a.cfg.JWTSecret), nil
		})
		if err != nil || !token.Valid {
			writeError(c, http.StatusUnauthorized, "Invalid or expired token")
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			writeError(c, http.StatusUnauthorized, "Invalid token payload")
			return
		}
		sub, _ := claims["sub"].(string)
		if strings.TrimSpace(sub) == "" {
			writeError(c, http.StatusUnauthorized, "Token subject missing")
			return
		}
		email, _ := claims["email"].(string)
		role, _ := claims["role"].(string)

		c.Set("authUser", AuthUser{ID: sub, Email: email, Role: role})
		c.Next()
	}
}

func (a *App) requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := authUserFromContext(c)
		if !ok {
			writeError(c, http.StatusUnauthorized, "Access denied")
			return
		}
		if user.Role != roleAdmin {
			writeError(c, http.StatusForbidden, "Admin access required")
			return
		}
		c.Next()
	}
}

func authUserFromContext(c *gin.Context) (AuthUser, bool) {
	raw, ok := c.Get("authUser")
	if !ok {
		return AuthUser{}, false
	}
	user, ok := raw.(AuthUser)
	return user, ok
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
