package handler

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/jwalitptl/hms-api/internal/model"
)

// Context keys set by the auth middleware.
const (
	CtxPrincipalID    = "principalID"
	CtxPrincipalRole  = "principalRole"
	CtxPrincipalEmail = "principalEmail"
)

// PrincipalID returns the authenticated principal's id from the request
// context.
func PrincipalID(c *gin.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.GetString(CtxPrincipalID))
	if err != nil {
		return uuid.Nil, fmt.Errorf("no authenticated principal in context")
	}
	return id, nil
}

// PrincipalRole returns the authenticated principal's role from the
// request context.
func PrincipalRole(c *gin.Context) model.Role {
	return model.Role(c.GetString(CtxPrincipalRole))
}
