// Package v1 wires the REST surface: account management, chat history,
// medicine schedules, plan generation, and the intake questionnaire. The
// real-time chat path lives in server/gateway, not here.
package v1

import (
	"github.com/labstack/echo/v4"
	"golang.org/x/sync/semaphore"

	"github.com/usehealthifier/healthifier/internal/profile"
	"github.com/usehealthifier/healthifier/plugin/ai"
	"github.com/usehealthifier/healthifier/server/auth"
	"github.com/usehealthifier/healthifier/server/chat"
	"github.com/usehealthifier/healthifier/store"
)

type APIV1Service struct {
	Profile     *profile.Profile
	Store       *store.Store
	Signer      *auth.Signer
	ChatService *chat.Service
	LLMService  ai.LLMService

	// planSemaphore bounds concurrent plan generations; each one is a
	// full model round-trip.
	planSemaphore *semaphore.Weighted
}

func NewAPIV1Service(profile *profile.Profile, store *store.Store, signer *auth.Signer, chatService *chat.Service, llmService ai.LLMService) *APIV1Service {
	return &APIV1Service{
		Profile:       profile,
		Store:         store,
		Signer:        signer,
		ChatService:   chatService,
		LLMService:    llmService,
		planSemaphore: semaphore.NewWeighted(3),
	}
}

// RegisterRoutes registers all REST routes on the echo instance.
func (s *APIV1Service) RegisterRoutes(e *echo.Echo) {
	apiV1 := e.Group("/api/v1")

	apiV1.POST("/auth/register", s.Register)
	apiV1.POST("/auth/login", s.Login)
	apiV1.POST("/auth/refresh", s.RefreshToken)

	apiV1.GET("/users", s.ListUsers)
	apiV1.GET("/users/:uid", s.GetUser)

	apiV1.GET("/chats", s.ListChatMessages)

	apiV1.GET("/contexts/questions", s.ListIntakeQuestions)
	apiV1.POST("/contexts/intake", s.StoreIntakeContext)

	apiV1.GET("/medicines", s.ListMedicines)
	apiV1.POST("/medicines", s.CreateMedicine)
	apiV1.DELETE("/medicines/:uid", s.DeleteMedicine)

	apiV1.GET("/plans/meal", s.GetMealPlan)
	apiV1.GET("/plans/workout", s.GetWorkoutPlan)
}
