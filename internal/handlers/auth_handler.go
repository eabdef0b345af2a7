package handlers

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/nabin00012/codecommons/internal/auth"
	"github.com/nabin00012/codecommons/internal/config"
	"github.com/nabin00012/codecommons/internal/models"
	"github.com/nabin00012/codecommons/internal/utils"
)

var validate = validator.New()

type AuthHandler struct {
	users *mongo.Collection
	cfg   config.Config
	log   *zap.Logger
}

func NewAuthHandler(client *mongo.Client, dbName string, cfg config.Config, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		users: client.Database(dbName).Collection("users"),
		cfg:   cfg,
		log:   log,
	}
}

func generateToken() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", err
	}
	return hex.EncodeToString(bytes), nil
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Password string `json:"password" validate:"required,min=6"`
}

// Register handles user registration
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "Email, name, and a password of at least 6 characters are required")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Timeout)
	defer cancel()

	var existing models.User
	err := h.users.FindOne(ctx, bson.M{"email": req.Email}).Decode(&existing)
	if err == nil {
		respondError(w, http.StatusConflict, "Email already exists")
		return
	} else if err != mongo.ErrNoDocuments {
		h.log.Error("email lookup failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to check email availability")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to hash password")
		return
	}

	verificationToken, err := generateToken()
	if err != nil {
		respondError(w, http.StatusInternalServerError, "Failed to generate verification token")
		return
	}

	now := time.Now()
	user := models.User{
		ID:                  primitive.NewObjectID(),
		Email:               req.Email,
		Name:                req.Name,
		Password:            string(hashedPassword),
		Role:                models.RoleStudent,
		IsVerified:          false,
		VerificationToken:   verificationToken,
		VerificationExpires: now.Add(24 * time.Hour),
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if _, err := h.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			respondError(w, http.StatusConflict, "Email already exists")
			return
		}
		h.log.Error("user insert failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create user")
		return
	}

	verificationURL := h.cfg.PublicURL + "/verify-email?token=" + verificationToken
	emailBody := "<p>Hi " + user.Name + ",</p>" +
		"<p>Welcome to CodeCommons! Please verify your email by opening the link below:</p>" +
		"<p><a href=\"" + verificationURL + "\">Verify Email</a></p>" +
		"<p>If you did not sign up for this account, you can safely ignore this email.</p>"
	go func() {
		if err := utils.SendEmail(h.cfg, user.Email, "Verify your CodeCommons account", emailBody); err != nil {
			h.log.Warn("verification email failed", zap.String("email", user.Email), zap.Error(err))
		}
	}()

	respondJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and sets the session cookie
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var credentials struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request payload")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Timeout)
	defer cancel()

	var user models.User
	err := h.users.FindOne(ctx, bson.M{"email": credentials.Email}).Decode(&user)
	if err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(credentials.Password)); err != nil {
		respondError(w, http.StatusUnauthorized, "Invalid email or password")
		return
	}

	token, err := auth.GenerateJWT(user.ID.Hex(), string(user.Role), user.Email)
	if err != nil {
		h.log.Error("token generation failed", zap.Error(err))
		respondError(w, http.StatusInternalServerError, "Failed to create session")
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    token,
		Expires:  time.Now().Add(24 * time.Hour),
		HttpOnly: true,
		Secure:   false,
		Path:     "/api",
	})

	respondJSON(w, http.StatusOK, user)
}

// Logout clears the session cookie. It does not require a session: a
// client with a stale or garbage token can always log out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	http.SetCookie(w, &http.Cookie{
		Name:     "token",
		Value:    "",
		MaxAge:   -1,
		HttpOnly: true,
		Path:     "/api",
	})
	respondJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Session resolves the cookie to the current user. The user document is
// re-fetched so the response never serves profile data stale from the
// token. An absent or invalid token yields {"user": null}, not an error.
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie("token")
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
		return
	}
	claims, err := auth.ValidateJWT(cookie.Value)
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
		return
	}

	userID, err := primitive.ObjectIDFromHex(claims.UserID)
	if err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.Timeout)
	defer cancel()

	var user models.User
	if err := h.users.FindOne(ctx, bson.M{"_id": userID}).Decode(&user); err != nil {
		respondJSON(w, http.StatusOK, map[string]interface{}{"user": nil})
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{"user": user})
}
