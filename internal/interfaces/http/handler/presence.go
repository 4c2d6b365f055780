package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/promanage/backend/internal/domain/chat"
)

// PresenceHandler serves the anonymous online-users read
type PresenceHandler struct {
	BaseHandler
	online   chat.OnlineSet
	presence chat.PresenceRepository
	logger   *zap.Logger
}

// NewPresenceHandler creates a presence handler
func NewPresenceHandler(online chat.OnlineSet, presence chat.PresenceRepository, logger *zap.Logger) *PresenceHandler {
	return &PresenceHandler{online: online, presence: presence, logger: logger}
}

// OnlineUsers handles GET /api/online-users. The fast-path set answers
// first; if it is unreachable the persisted presence rows serve as the
// fallback.
func (h *PresenceHandler) OnlineUsers(c *gin.Context) {
	ctx := c.Request.Context()

	users, err := h.online.Members(ctx)
	if err != nil {
		h.logger.Warn("online set unavailable, falling back to presence rows", zap.Error(err))
		users, err = h.presence.FindOnline(ctx)
		if err != nil {
			h.HandleError(c, err)
			return
		}
	}

	if users == nil {
		users = []uuid.UUID{}
	}
	h.Success(c, gin.H{"online_users": users, "count": len(users)})
}
