package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"jan-server/services/chat-router/internal/interfaces/httpserver/handlers"
	chatreq "jan-server/services/chat-router/internal/interfaces/httpserver/requests/chat"
	"jan-server/services/chat-router/internal/interfaces/httpserver/responses"
	chatres "jan-server/services/chat-router/internal/interfaces/httpserver/responses/chat"
)

// RegisterChatRoutes registers the chat and conversation endpoints on router.
func RegisterChatRoutes(router gin.IRoutes, h *handlers.Provider) {
	router.POST("/chat", sendMessage(h.Chat))

	router.GET("/chat/conversations", listConversations(h.Conversations))
	router.GET("/chat/conversations/:conversation_id", getConversation(h.Conversations))
	router.DELETE("/chat/conversations", deleteConversation(h.Conversations))

	router.GET("/chat/labels", getLabels(h.Conversations))
	router.POST("/chat/labels", setLabel(h.Conversations))
}

// sendMessage godoc
// @Summary      Send a chat message
// @Description  Classifies the message, answers it with the matching agent and stores both turns.
// @Tags         Chat API
// @Accept       json
// @Produce      json
// @Param        request body chatreq.SendMessageRequest true "Chat turn"
// @Success      200 {object} conversation.AgentResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      409 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /chat [post]
func sendMessage(handler *handlers.ChatHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatreq.SendMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		resp, err := handler.SendMessage(c.Request.Context(), req.ToPayload())
		if err != nil {
			responses.HandleError(c, err, "failed to process message")
			return
		}

		c.JSON(http.StatusOK, resp)
	}
}

// listConversations godoc
// @Summary      List conversations
// @Description  Returns every stored conversation of a user with its messages and label.
// @Tags         Chat API
// @Produce      json
// @Param        user_id query string true "User ID"
// @Success      200 {object} chatres.ListConversationsResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /chat/conversations [get]
func listConversations(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query chatreq.UserQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		convs, err := handler.ListConversations(c.Request.Context(), query.UserID)
		if err != nil {
			responses.HandleError(c, err, "failed to list conversations")
			return
		}

		c.JSON(http.StatusOK, chatres.NewListConversationsResponse(query.UserID, convs))
	}
}

// getConversation godoc
// @Summary      Get one conversation
// @Tags         Chat API
// @Produce      json
// @Param        conversation_id path string true "Conversation ID"
// @Param        user_id query string true "User ID"
// @Success      200 {object} chatres.ConversationResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /chat/conversations/{conversation_id} [get]
func getConversation(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query chatreq.UserQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			responses.HandleBindError(c, err)
			return
		}
		conversationID := c.Param("conversation_id")

		turns, err := handler.History(c.Request.Context(), conversationID, query.UserID)
		if err != nil {
			responses.HandleError(c, err, "failed to read conversation")
			return
		}

		c.JSON(http.StatusOK, chatres.NewConversationResponseFromTurns(conversationID, turns))
	}
}

// deleteConversation godoc
// @Summary      Delete a conversation
// @Description  Removes the conversation history, its index entry and its label.
// @Tags         Chat API
// @Accept       json
// @Produce      json
// @Param        request body chatreq.DeleteConversationRequest true "Conversation to delete"
// @Success      200 {object} chatres.DeleteConversationResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /chat/conversations [delete]
func deleteConversation(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatreq.DeleteConversationRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		if err := handler.DeleteConversation(c.Request.Context(), req.UserID, req.ConversationID); err != nil {
			responses.HandleError(c, err, "failed to delete conversation")
			return
		}

		c.JSON(http.StatusOK, chatres.NewDeleteConversationResponse(req.ConversationID))
	}
}

// getLabels godoc
// @Summary      Get conversation labels
// @Tags         Chat API
// @Produce      json
// @Param        user_id query string true "User ID"
// @Success      200 {object} chatres.LabelsResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /chat/labels [get]
func getLabels(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query chatreq.UserQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		labels, err := handler.GetLabels(c.Request.Context(), query.UserID)
		if err != nil {
			responses.HandleError(c, err, "failed to read labels")
			return
		}

		c.JSON(http.StatusOK, chatres.NewLabelsResponse(labels))
	}
}

// setLabel godoc
// @Summary      Label a conversation
// @Tags         Chat API
// @Accept       json
// @Produce      json
// @Param        request body chatreq.SetLabelRequest true "Label"
// @Success      200 {object} chatres.StatusResponse
// @Failure      400 {object} responses.ErrorResponse
// @Failure      500 {object} responses.ErrorResponse
// @Router       /chat/labels [post]
func setLabel(handler *handlers.ConversationHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatreq.SetLabelRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			responses.HandleBindError(c, err)
			return
		}

		if err := handler.SetLabel(c.Request.Context(), req.UserID, req.ConversationID, req.Label); err != nil {
			responses.HandleError(c, err, "failed to set label")
			return
		}

		c.JSON(http.StatusOK, chatres.NewStatusOK())
	}
}
