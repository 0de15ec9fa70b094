package authController

import (
	"log"
	"strings"
	"time"

	"sab/config"
	"sab/database"
	"sab/middleware"
	"sab/models"
	"sab/utils"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

func Signup(c *fiber.Ctx) error {
	reqData := new(struct {
		FirstName     string `json:"firstName"`
		LastName      string `json:"lastName"`
		Email         string `json:"email"`
		Password      string `json:"password"`
		Phone         string `json:"phone"`
		TargetCountry string `json:"targetCountry"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	errors := make(map[string]string)
	if strings.TrimSpace(reqData.FirstName) == "" {
		errors["firstName"] = "First name is required!"
	}
	if strings.TrimSpace(reqData.LastName) == "" {
		errors["lastName"] = "Last name is required!"
	}
	if !strings.Contains(reqData.Email, "@") {
		errors["email"] = "A valid email is required!"
	}
	if len(reqData.Password) < 6 {
		errors["password"] = "Password must be at least 6 characters long!"
	}
	if len(errors) > 0 {
		return middleware.ValidationErrorResponse(c, errors)
	}

	db := database.Database.Db
	email := strings.ToLower(strings.TrimSpace(reqData.Email))

	// Check if email already exists
	if err := db.Where("email = ?", email).First(&models.User{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Email is already registered!", nil)
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(reqData.Password), config.AppConfig.SaltRound)
	if err != nil {
		log.Printf("Error hashing password: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to process your request!", nil)
	}

	newUser := models.User{
		FirstName:     strings.TrimSpace(reqData.FirstName),
		LastName:      strings.TrimSpace(reqData.LastName),
		Email:         email,
		Password:      string(hashedPassword),
		Phone:         reqData.Phone,
		TargetCountry: reqData.TargetCountry,
	}
	if newUser.TargetCountry == "" {
		newUser.TargetCountry = "USA"
	}

	if err := db.Create(&newUser).Error; err != nil {
		log.Printf("Error saving user to database: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to signup user!", nil)
	}

	go utils.SendWelcomeEmail(newUser.Email, newUser.FirstName)

	token, err := middleware.GenerateJWT(newUser.ID, newUser.FirstName, newUser.LastName, string(newUser.Role), newUser.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "User registered successfully.", fiber.Map{
		"token": token,
		"user":  newUser,
	})
}

func Login(c *fiber.Ctx) error {
	reqData := new(struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Failed to parse request body!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("email = ? AND is_deleted = ?", strings.ToLower(strings.TrimSpace(reqData.Email)), false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(reqData.Password)); err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid email or password!", nil)
	}

	now := time.Now()
	user.LastLogin = &now
	db.Save(&user)

	token, err := middleware.GenerateJWT(user.ID, user.FirstName, user.LastName, string(user.Role), user.Email)
	if err != nil {
		log.Printf("Error generating token: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to generate token!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Login successful!", fiber.Map{
		"token": token,
		"user":  user,
	})
}

func GetProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var summaries []models.TestSummary
	database.Database.Db.Where("user_id = ?", userID).Order("taken_at desc").Limit(10).Find(&summaries)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile fetched successfully!", fiber.Map{
		"user":        user,
		"testResults": summaries,
	})
}

func UpdateProfile(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	var user models.User
	db := database.Database.Db
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	reqData := new(struct {
		FirstName          *string `json:"firstName"`
		LastName           *string `json:"lastName"`
		Phone              *string `json:"phone"`
		Avatar             *string `json:"avatar"`
		TargetCountry      *string `json:"targetCountry"`
		Language           *string `json:"language"`
		EmailNotifications *bool   `json:"emailNotifications"`
		SMSNotifications   *bool   `json:"smsNotifications"`
	})

	if err := c.BodyParser(reqData); err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
	}

	if reqData.FirstName != nil && strings.TrimSpace(*reqData.FirstName) != "" {
		user.FirstName = strings.TrimSpace(*reqData.FirstName)
	}
	if reqData.LastName != nil && strings.TrimSpace(*reqData.LastName) != "" {
		user.LastName = strings.TrimSpace(*reqData.LastName)
	}
	if reqData.Phone != nil {
		user.Phone = *reqData.Phone
	}
	if reqData.Avatar != nil {
		user.Avatar = *reqData.Avatar
	}
	if reqData.TargetCountry != nil {
		user.TargetCountry = *reqData.TargetCountry
	}
	if reqData.Language != nil {
		user.Language = *reqData.Language
	}
	if reqData.EmailNotifications != nil {
		user.EmailNotifications = *reqData.EmailNotifications
	}
	if reqData.SMSNotifications != nil {
		user.SMSNotifications = *reqData.SMSNotifications
	}

	if err := db.Save(&user).Error; err != nil {
		log.Printf("Error updating profile: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profile!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profile updated successfully!", user)
}
