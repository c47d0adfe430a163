package controller

import (
	"wanderlust_backend/internal/util"
	"wanderlust_backend/pkg/faults"

	"github.com/gin-gonic/gin"
)

// respondError runs a service error through the fault chain and writes
// the classified status and message.
func respondError(ctx *gin.Context, handler *faults.Handler, err error) {
	c := handler.Classify(err)
	util.Error(ctx, c.Status, c.Message)
}
