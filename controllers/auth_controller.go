package controllers

import (
	"time"

	"tailor-app/config"
	"tailor-app/models"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB *gorm.DB
}

func NewAuthController(DB *gorm.DB) *AuthController {
	return &AuthController{DB: DB}
}

func (c *AuthController) Login(ctx *fiber.Ctx) error {
	var input struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := ctx.BodyParser(&input); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if input.Username == "" || input.Password == "" {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "username and password are required"})
	}

	var user models.User
	if err := c.DB.Where("username = ? AND is_active = ?", input.Username, true).First(&user).Error; err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid username or password"})
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid username or password"})
	}

	sessionID := uuid.New().String()
	now := time.Now()

	claims := jwt.MapClaims{
		"user_id":    float64(user.ID),
		"username":   user.Username,
		"name":       user.Name,
		"role":       user.Role,
		"session_id": sessionID,
		"iat":        now.Unix(),
		"exp":        now.Add(time.Duration(config.JWTExpiration) * time.Second).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(config.JWTSecret))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to sign token"})
	}

	ctx.Cookie(config.GetTokenCookie(signed))

	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Login successful",
		"data": fiber.Map{
			"token": signed,
			"user": fiber.Map{
				"id":        user.ID,
				"username":  user.Username,
				"name":      user.Name,
				"role":      user.Role,
				"is_tailor": user.IsTailor,
			},
		},
	})
}

func (c *AuthController) Logout(ctx *fiber.Ctx) error {
	ctx.Cookie(config.GetTokenCookie(""))
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"message": "Logout successful",
	})
}

// IsLoggedIn is a probe for the frontend; the auth middleware has already
// validated the token by the time this runs.
func (c *AuthController) IsLoggedIn(ctx *fiber.Ctx) error {
	return ctx.Status(fiber.StatusOK).JSON(fiber.Map{
		"success": true,
		"data":    ctx.Locals("userData"),
	})
}
