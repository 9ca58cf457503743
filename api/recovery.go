/*
Copyright 2025 Wayfind Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/wayfindhq/wayfind/api/model"
	"github.com/wayfindhq/wayfind/internal/apierror"
	"github.com/wayfindhq/wayfind/internal/store"
)

func (a Api) GetRecoverySession(c *gin.Context) {
	sessionID, passed := c.Params.Get("session_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required. pass session_id in the route /:session_id"})
		return
	}

	session, err := a.wayfind.Recovery().GetSession(c.Request.Context(), sessionID)
	if err != nil {
		if errors.Is(err, store.ErrSessionNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "recovery session not found"})
			return
		}
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, session)
}

func (a Api) AttemptRecovery(c *gin.Context) {
	sessionID, passed := c.Params.Get("session_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required. pass session_id in the route /:session_id"})
		return
	}

	result := a.wayfind.Recovery().AttemptRecovery(c.Request.Context(), sessionID)
	if !result.Success {
		c.JSON(http.StatusUnprocessableEntity, result)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (a Api) ResumeRecovery(c *gin.Context) {
	sessionID, passed := c.Params.Get("session_id")
	if !passed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "session_id is required. pass session_id in the route /:session_id"})
		return
	}

	var req model2.ResumeRecoveryReq
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
		return
	}

	result, err := a.wayfind.ResumeOnboarding(c.Request.Context(), sessionID, req.Data)
	if err != nil {
		c.JSON(apierror.MapErrorToHTTPStatus(err), gin.H{"error": err.Error(), "result": result})
		return
	}

	c.JSON(http.StatusOK, result)
}
