package handlers

import (
	"feedbackapp/internal/config"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

// flashMessage is one queued flash with its display category.
type flashMessage struct {
	Category string
	Message  string
}

// addFlash queues a flash message on the session for the next rendered page.
func addFlash(c *gin.Context, category, message string) {
	session := sessions.Default(c)
	session.AddFlash(message, category)
	_ = session.Save()
}

// takeFlashes drains all queued flash messages, success first, and persists
// the cleared session.
func takeFlashes(c *gin.Context) []flashMessage {
	session := sessions.Default(c)

	var out []flashMessage
	for _, category := range []string{config.FlashCategorySuccess, config.FlashCategoryError} {
		for _, v := range session.Flashes(category) {
			if msg, ok := v.(string); ok {
				out = append(out, flashMessage{Category: category, Message: msg})
			}
		}
	}
	_ = session.Save()
	return out
}
