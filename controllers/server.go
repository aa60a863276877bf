package controllers

import (
	"net/http"
	"os"

	"wardrobeapi/services"
	"wardrobeapi/stylist"
	"wardrobeapi/tasks"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	echojwt "github.com/labstack/echo-jwt"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"gorm.io/gorm"
)

type CustomValidator struct {
	validator *validator.Validate
}

func (cv *CustomValidator) Validate(i interface{}) error {
	if err := cv.validator.Struct(i); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

// Dependencies wires the handlers to their collaborators. DB and the task
// client may be nil when only the stylist routes are exercised.
type Dependencies struct {
	DB          *gorm.DB
	Engine      *stylist.Engine
	Recommender *stylist.Recommender
	Wardrobe    stylist.WardrobeStore
	Outfits     OutfitStore
	AWSService  services.AWSServiceProvider
	URLCache    services.URLCacheServiceProvider
	AsynqClient tasks.TaskEnqueuer
}

func SetupServer(deps Dependencies) *echo.Echo {
	e := echo.New()
	e.Validator = &CustomValidator{validator: validator.New()}

	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set("__db", deps.DB)
			c.Set("__asynqclient", deps.AsynqClient)
			return next(c)
		}
	})
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{"*"},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})

	stylistController := StylistController{
		Engine:      deps.Engine,
		Recommender: deps.Recommender,
		Wardrobe:    deps.Wardrobe,
		Outfits:     deps.Outfits,
	}
	stylistGroup := e.Group("/stylist", echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)
	stylistController.StylistRoutes(stylistGroup)

	clothesController := ClothesController{AWSService: deps.AWSService, URLCache: deps.URLCache}
	clothesGroup := e.Group("/clothes", echojwt.JWT([]byte(os.Getenv("JWT_SECRET"))), UserMiddleware)
	clothesController.ClothingRoutes(clothesGroup)

	return e
}
