package system

import (
	"github.com/SketchClarkey/Chryso-form-v2-sub003/internal/features/analytics"
	"github.com/SketchClarkey/Chryso-form-v2-sub003/pkg/utils"

	"github.com/gofiber/fiber/v2"
)

type DebugController struct{}

func NewDebugController() *DebugController {
	return &DebugController{}
}

// GetCurrentUser godoc
// @Summary      Get current user info
// @Description  Get the token claims and the analytics scope they resolve to
// @Tags         debug
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/debug/me [get]
func (c *DebugController) GetCurrentUser(ctx *fiber.Ctx) error {
	claims, ok := ctx.Locals(utils.UserClaimsKey).(*utils.UserClaims)
	if !ok {
		return ctx.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Unauthorized"})
	}

	return ctx.JSON(fiber.Map{
		"user_id":   claims.UserID,
		"roles":     claims.Roles,
		"worksites": claims.Worksites,
		"requester": analytics.RequesterFromClaims(claims),
	})
}
