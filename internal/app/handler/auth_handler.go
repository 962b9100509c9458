package handler

import (
	"crypto/sha1"
	"encoding/hex"
	"errors"
	"net/http"
	"time"

	"backend/internal/app/config"
	"backend/internal/app/ds"
	"backend/internal/app/dto"
	"backend/internal/app/redis"
	"backend/internal/app/repository"
	"backend/internal/app/role"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	Repository  *repository.Repository
	RedisClient *redis.Client
	Config      *config.Config
}

func NewAuthHandler(r *repository.Repository, redisClient *redis.Client, config *config.Config) *AuthHandler {
	return &AuthHandler{
		Repository:  r,
		RedisClient: redisClient,
		Config:      config,
	}
}

func generateHashString(s string) string {
	h := sha1.New()
	h.Write([]byte(s))
	return hex.EncodeToString(h.Sum(nil))
}

func userToDTO(u *ds.User) dto.UserResponse {
	roles := u.RoleList()
	tags := make([]string, len(roles))
	for i, r := range roles {
		tags[i] = string(r)
	}
	return dto.UserResponse{
		ID:       u.ID,
		Login:    u.Login,
		FullName: u.FullName,
		Roles:    tags,
	}
}

func (h *AuthHandler) signToken(user *ds.User) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ds.JWTClaims{
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: now.Add(h.Config.JWT.ExpiresIn).Unix(),
			IssuedAt:  now.Unix(),
			Issuer:    "solar-projects",
		},
		UserID: user.ID,
		Roles:  user.RoleList(),
	})
	return token.SignedString([]byte(h.Config.JWT.Token))
}

// RegisterUser registers a new actor
// @Summary Register user
// @Description Creates a new actor with the given role tags
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.RegisterRequest true "Registration fields"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/auth/register [post]
func (h *AuthHandler) RegisterUser(ctx *gin.Context) {
	var request dto.RegisterRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	exists, _ := h.Repository.UserExistsByLogin(request.Login)
	if exists {
		h.errorHandler(ctx, http.StatusBadRequest, errors.New("login is already taken"))
		return
	}

	roles := make([]role.Role, 0, len(request.Roles))
	for _, tag := range request.Roles {
		if role.Known(role.Role(tag)) {
			roles = append(roles, role.Role(tag))
		}
	}
	if len(roles) == 0 {
		roles = []role.Role{role.Client}
	}

	user := &ds.User{
		Login:    request.Login,
		Password: generateHashString(request.Password),
		FullName: request.FullName,
		Roles:    role.JoinList(roles),
	}
	if err := h.Repository.CreateUser(user); err != nil {
		logrus.Error("Error creating user: ", err)
		h.errorHandler(ctx, http.StatusInternalServerError, errors.New("failed to register user"))
		return
	}

	accessToken, err := h.signToken(user)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{
		"status":  "success",
		"message": "user registered",
		"user":    userToDTO(user),
		"data":    accessToken,
	})
}

// LoginUser authenticates an actor
// @Summary Login
// @Description Returns a JWT and the anti-forgery token for state-changing calls
// @Tags Authentication
// @Accept json
// @Produce json
// @Param request body dto.LoginRequest true "Credentials"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Router /api/auth/login [post]
func (h *AuthHandler) LoginUser(ctx *gin.Context) {
	var request dto.LoginRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	hashedPassword := generateHashString(request.Password)

	user, err := h.Repository.GetUserByLogin(request.Login)
	if err != nil || user.Password != hashedPassword {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("invalid login or password"))
		return
	}

	accessToken, err := h.signToken(user)
	if err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	// Anti-forgery token for state-changing calls, kept alongside the JWT TTL.
	csrfToken := uuid.New().String()
	if err := h.RedisClient.WriteCSRFToken(ctx.Request.Context(), user.ID, csrfToken, h.Config.JWT.ExpiresIn); err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":     "success",
		"message":    "user authenticated",
		"user_id":    user.ID,
		"roles":      userToDTO(user).Roles,
		"token":      accessToken,
		"csrf_token": csrfToken,
		"login":      user.Login,
		"expires_in": int(h.Config.JWT.ExpiresIn.Seconds()),
		"token_type": "Bearer",
	})
}

// LogoutUser invalidates the current token
// @Summary Logout
// @Description Adds the JWT to the blacklist until it expires
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} map[string]interface{}
// @Failure 500 {object} map[string]interface{}
// @Router /api/auth/logout [post]
func (h *AuthHandler) LogoutUser(ctx *gin.Context) {
	tokenString := ctx.GetHeader("Authorization")
	if tokenString == "" {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("authorization header missing"))
		return
	}

	if len(tokenString) > 7 && tokenString[:7] == "Bearer " {
		tokenString = tokenString[7:]
	}

	token, err := jwt.ParseWithClaims(tokenString, &ds.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		return []byte(h.Config.JWT.Token), nil
	})
	if err != nil {
		h.errorHandler(ctx, http.StatusUnauthorized, err)
		return
	}

	claims, ok := token.Claims.(*ds.JWTClaims)
	if !ok {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("invalid token claims"))
		return
	}

	ttl := time.Until(time.Unix(claims.ExpiresAt, 0))
	if ttl <= 0 {
		ctx.JSON(http.StatusOK, gin.H{
			"status":  "success",
			"message": "user logged out",
		})
		return
	}

	if err := h.RedisClient.WriteJWTToBlacklist(ctx.Request.Context(), tokenString, ttl); err != nil {
		h.errorHandler(ctx, http.StatusInternalServerError, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "user logged out",
	})
}

// GetUserProfile returns the authenticated actor
// @Summary Get profile
// @Description Returns the current actor's profile and scope fields
// @Tags Authentication
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /api/auth/profile [get]
func (h *AuthHandler) GetUserProfile(ctx *gin.Context) {
	userID, exists := ctx.Get("userID")
	if !exists {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("user not authenticated"))
		return
	}

	user, err := h.Repository.GetUser(userID.(uint))
	if err != nil {
		h.errorHandler(ctx, http.StatusNotFound, errors.New("user not found"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status": "success",
		"user": gin.H{
			"id":              user.ID,
			"login":           user.Login,
			"full_name":       user.FullName,
			"roles":           userToDTO(user).Roles,
			"assigned_state":  user.AssignedState,
			"assigned_city":   user.AssignedCity,
			"assigned_states": user.StateScope(),
			"supervisor_id":   user.SupervisorID,
		},
	})
}

// UpdateUserProfile updates the current actor's name or password
// @Summary Update profile
// @Description Updates the actor's full name and/or password
// @Tags Authentication
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /api/auth/profile [put]
func (h *AuthHandler) UpdateUserProfile(ctx *gin.Context) {
	userID, exists := ctx.Get("userID")
	if !exists {
		h.errorHandler(ctx, http.StatusUnauthorized, errors.New("user not authenticated"))
		return
	}

	var request dto.UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&request); err != nil {
		h.errorHandler(ctx, http.StatusBadRequest, err)
		return
	}

	var hashedPassword *string
	if request.Password != nil {
		hashed := generateHashString(*request.Password)
		hashedPassword = &hashed
	}

	if err := h.Repository.UpdateUser(userID.(uint), request.FullName, hashedPassword); err != nil {
		logrus.Error("Error updating user: ", err)
		h.errorHandler(ctx, http.StatusInternalServerError, errors.New("failed to update profile"))
		return
	}

	ctx.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "profile updated",
	})
}

func (h *AuthHandler) errorHandler(ctx *gin.Context, errorStatusCode int, err error) {
	logrus.Error(err.Error())
	ctx.JSON(errorStatusCode, gin.H{
		"status":      "error",
		"description": err.Error(),
	})
}
