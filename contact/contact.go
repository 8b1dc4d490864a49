// Package contact forwards the storefront contact form to the shop's inbox.
package contact

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/julienschmidt/httprouter"
	"go.uber.org/zap"

	"shoestore/models"
	"shoestore/utils"
)

const msgSendFailed = "تعذر إرسال الرسالة، يرجى المحاولة لاحقاً"

type Handler struct {
	mailer   Mailer
	to       string
	siteName string
	now      func() time.Time
}

func NewHandler(mailer Mailer, to, siteName string) *Handler {
	return &Handler{mailer: mailer, to: to, siteName: siteName, now: time.Now}
}

func normalize(m *models.ContactMessage) {
	m.Name = strings.TrimSpace(m.Name)
	m.Email = strings.TrimSpace(m.Email)
	m.Phone = strings.TrimSpace(m.Phone)
	m.Message = strings.TrimSpace(m.Message)
}

func (h *Handler) Submit(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
	defer cancel()

	var msg models.ContactMessage
	if err := utils.DecodeJSON(r, &msg); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}
	normalize(&msg)
	if err := utils.ValidateStruct(msg); err != nil {
		utils.RespondWithErr(w, r, err)
		return
	}

	body, err := Render(msg, h.siteName, h.now())
	if err != nil {
		zap.L().Error("render contact email", zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, msgSendFailed)
		return
	}
	if err := h.mailer.Send(ctx, h.to, Subject(msg), body); err != nil {
		zap.L().Error("send contact email", zap.String("from", msg.Email), zap.Error(err))
		utils.RespondWithError(w, http.StatusInternalServerError, msgSendFailed)
		return
	}

	zap.L().Info("contact message sent", zap.String("from", msg.Email))
	utils.RespondWithJSON(w, http.StatusOK, map[string]string{"message": "تم إرسال رسالتك بنجاح"})
}
