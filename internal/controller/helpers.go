package controller

import (
	"clever_backend/internal/grading"
	"clever_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

// pathID parses the :id path parameter. On failure it writes a 400 and
// returns false.
func pathID(ctx *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 32)
	if err != nil || id == 0 {
		util.BadRequest(ctx, "invalid id")
		return 0, false
	}
	return uint(id), true
}

// principal returns the authenticated caller, writing a 401 when absent.
func principal(ctx *gin.Context) (grading.Principal, bool) {
	claims := util.GetUserFromContext(ctx)
	if claims == nil {
		util.Unauthorized(ctx)
		return grading.Principal{}, false
	}
	return claims.Principal(), true
}
