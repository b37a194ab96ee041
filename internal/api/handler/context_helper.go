package handler

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rahultripathi17/TimeDesk-sub001/internal/service"
	"github.com/rahultripathi17/TimeDesk-sub001/pkg/response"
)

// Context keys written by middleware.JWTAuth.
const (
	CtxProfileID    = "profile_id"
	CtxRole         = "role"
	CtxDepartmentID = "department_id"
	CtxTokenJTI     = "token_jti"
	CtxTokenExp     = "token_exp"
)

// MustGetProfileID extracts profile_id from the gin context.
// It writes a 401 and returns false when the JWT middleware did not run;
// callers return immediately on false.
func MustGetProfileID(c *gin.Context) (string, bool) {
	v, exists := c.Get(CtxProfileID)
	if !exists {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	s, ok := v.(string)
	if !ok || s == "" {
		response.Unauthorized(c, 10002, "not authenticated")
		return "", false
	}
	return s, true
}

// callerFrom builds the service caller from the token claims.
func callerFrom(c *gin.Context) (service.Caller, bool) {
	profileID, ok := MustGetProfileID(c)
	if !ok {
		return service.Caller{}, false
	}
	role, _ := c.Get(CtxRole)
	deptID, _ := c.Get(CtxDepartmentID)

	caller := service.Caller{ProfileID: profileID}
	caller.Role, _ = role.(string)
	caller.DepartmentID, _ = deptID.(string)
	return caller, true
}

// tokenFrom returns the access token's jti and expiry.
func tokenFrom(c *gin.Context) (string, time.Time) {
	jti, _ := c.Get(CtxTokenJTI)
	exp, _ := c.Get(CtxTokenExp)
	s, _ := jti.(string)
	t, _ := exp.(time.Time)
	return s, t
}
