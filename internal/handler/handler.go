package handler

import (
	"sync"

	"wordflow/internal/domain"
	"wordflow/internal/service"

	"go.uber.org/zap"
	tele "gopkg.in/telebot.v3"
)

// Handler manages all bot interactions
type Handler struct {
	bot             *tele.Bot
	authService     *service.AuthService
	wordService     *service.WordService
	reviewService   *service.ReviewService
	statsService    *service.StatsService
	trainingService *service.TrainingService
	logger          *zap.Logger

	// User states (in-memory state machine)
	states   map[int64]*domain.StateData
	filters  map[int64]service.CardFilter
	stateMux sync.RWMutex

	// Per-user locks so callbacks of one user do not interleave
	callbackLocks map[int64]*sync.Mutex
	callbackMux   sync.Mutex
}

// NewHandler creates a new handler instance
func NewHandler(
	bot *tele.Bot,
	authService *service.AuthService,
	wordService *service.WordService,
	reviewService *service.ReviewService,
	statsService *service.StatsService,
	trainingService *service.TrainingService,
	logger *zap.Logger,
) *Handler {
	return &Handler{
		bot:             bot,
		authService:     authService,
		wordService:     wordService,
		reviewService:   reviewService,
		statsService:    statsService,
		trainingService: trainingService,
		logger:          logger,
		states:          make(map[int64]*domain.StateData),
		filters:         make(map[int64]service.CardFilter),
		callbackLocks:   make(map[int64]*sync.Mutex),
	}
}

// RegisterHandlers registers all bot handlers. Everything except the sign-in
// flow goes through auth.
func (h *Handler) RegisterHandlers(auth tele.MiddlewareFunc) {
	// Commands
	h.bot.Handle("/start", h.handleStart)
	h.bot.Handle("/register", h.handleRegister)
	h.bot.Handle("/logout", h.handleLogout)

	// Text messages drive the sign-in flow and word input
	h.bot.Handle(tele.OnText, h.handleText)

	authed := h.bot.Group()
	authed.Use(auth)

	authed.Handle("/find", h.handleFind)

	// Reply keyboard
	authed.Handle(&btnWords, h.handleWords)
	authed.Handle(&btnReview, h.handleReview)
	authed.Handle(&btnTraining, h.handleTraining)
	authed.Handle(&btnStats, h.handleStats)
	authed.Handle(&btnProfile, h.handleProfile)

	// Callback queries (inline buttons)
	authed.Handle(&btnCancel, h.handleCancel)
	authed.Handle(&btnMainMenu, h.handleMainMenu)

	// Generic callback handler for dynamic data
	authed.Handle(tele.OnCallback, h.handleCallback)
}

// GetState returns user's current state
func (h *Handler) GetState(userID int64) *domain.StateData {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()

	state, exists := h.states[userID]
	if !exists {
		return &domain.StateData{State: domain.StateIdle}
	}
	return state
}

// SetState sets user's state
func (h *Handler) SetState(userID int64, state *domain.StateData) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	h.states[userID] = state
}

// ResetState resets user to idle state
func (h *Handler) ResetState(userID int64) {
	h.SetState(userID, &domain.StateData{State: domain.StateIdle})
}

// CardFilter returns the word list filter of the user
func (h *Handler) CardFilter(userID int64) service.CardFilter {
	h.stateMux.RLock()
	defer h.stateMux.RUnlock()
	return h.filters[userID]
}

// SetCardFilter replaces the word list filter of the user
func (h *Handler) SetCardFilter(userID int64, f service.CardFilter) {
	h.stateMux.Lock()
	defer h.stateMux.Unlock()
	if !f.Active() {
		delete(h.filters, userID)
		return
	}
	h.filters[userID] = f
}

// lockUser serializes the updates of one user and returns the unlock func
func (h *Handler) lockUser(userID int64) func() {
	h.callbackMux.Lock()
	lock, exists := h.callbackLocks[userID]
	if !exists {
		lock = &sync.Mutex{}
		h.callbackLocks[userID] = lock
	}
	h.callbackMux.Unlock()

	lock.Lock()
	return lock.Unlock
}

// Reply keyboard buttons
var (
	menuKeyboard = &tele.ReplyMarkup{ResizeKeyboard: true}
	btnWords     = menuKeyboard.Text("📚 Words")
	btnReview    = menuKeyboard.Text("🔁 Review")
	btnTraining  = menuKeyboard.Text("🎯 Training")
	btnStats     = menuKeyboard.Text("📊 Stats")
	btnProfile   = menuKeyboard.Text("👤 Profile")
)

// Inline keyboard buttons
var (
	btnCancel = tele.Btn{
		Unique: "cancel",
		Text:   "❌ Cancel",
	}
	btnMainMenu = tele.Btn{
		Unique: "main_menu",
		Text:   "🏠 Main menu",
	}
)

func init() {
	menuKeyboard.Reply(
		menuKeyboard.Row(btnWords, btnReview, btnTraining),
		menuKeyboard.Row(btnStats, btnProfile),
	)
}

// mainMenuMarkup returns the main menu keyboard
func mainMenuMarkup() *tele.ReplyMarkup {
	return menuKeyboard
}

const mainMenuText = "🏠 Main menu\n\nSend a word to add it, or pick a section below."
