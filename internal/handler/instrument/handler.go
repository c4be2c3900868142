package instrument

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/zhouzirui/z-counsel/backend/internal/assessment"
	"github.com/zhouzirui/z-counsel/backend/pkg/utils"
)

// Handler 量表定义的HTTP处理器
type Handler struct{}

// New 创建量表处理器
func New() *Handler {
	return &Handler{}
}

// RegisterRoutes 注册量表相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/instruments", h.handleListInstruments)
	r.Get("/instruments/{kind}", h.handleGetInstrument)
}

type catalog struct {
	Instruments        []assessment.Instrument `json:"instruments"`
	Scale              []assessment.Anchor     `json:"scale"`
	RetakeIntervalDays int                     `json:"retakeIntervalDays"`
}

// handleListInstruments 列出所有量表
func (h *Handler) handleListInstruments(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, catalog{
		Instruments:        assessment.All(),
		Scale:              assessment.Scale,
		RetakeIntervalDays: int(assessment.RetakeInterval.Hours() / 24),
	})
}

func (h *Handler) handleGetInstrument(w http.ResponseWriter, r *http.Request) {
	inst, ok := assessment.Lookup(assessment.Kind(chi.URLParam(r, "kind")))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "instrument not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, inst)
}
