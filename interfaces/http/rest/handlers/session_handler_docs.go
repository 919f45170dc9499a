package handlers

// This file contains OpenAPI/Swagger documentation for SessionHandler endpoints

// CreateSession opens a new editor session
// @Summary Open an editor session
// @Description Creates a session whose diagram holds only the Start node
// @Tags sessions
// @Produce json
// @Success 201 {object} SessionResponse "Session created"
// @Failure 429 {object} ErrorResponse "Session limit reached"
// @Router /sessions [post]

// GetSession returns the session state
// @Summary Get session state
// @Description Returns the diagram, its version and the current code artifact
// @Tags sessions
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} SessionResponse "Session state"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Router /sessions/{sessionID} [get]

// DeleteSession ends a session
// @Summary End a session
// @Tags sessions
// @Param sessionID path string true "Session ID"
// @Success 204 "Session ended"
// @Failure 404 {object} ErrorResponse "Session not found"
// @Router /sessions/{sessionID} [delete]

// AddNode adds a node to the diagram
// @Summary Add a node
// @Description Appends a node with a generated id; a blank label takes the kind's toolbar label
// @Tags diagram
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body CreateNodeRequest true "Node to add"
// @Success 201 {object} NodeResponse "Node added"
// @Failure 400 {object} ErrorResponse "Invalid request parameters"
// @Failure 409 {object} ErrorResponse "A prompt is being processed"
// @Router /sessions/{sessionID}/nodes [post]

// AddEdge connects two nodes
// @Summary Add an edge
// @Tags diagram
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body CreateEdgeRequest true "Edge to add"
// @Success 201 {object} EdgeResponse "Edge added"
// @Failure 409 {object} ErrorResponse "A prompt is being processed"
// @Failure 422 {object} ErrorResponse "Source or target node does not exist"
// @Router /sessions/{sessionID}/edges [post]

// SubmitPrompt asks the assistant to edit the diagram
// @Summary Submit a prompt
// @Description Replaces the diagram with the interpreted edit after the simulated latency
// @Tags assistant
// @Accept json
// @Produce json
// @Param sessionID path string true "Session ID"
// @Param request body PromptRequest true "Prompt text"
// @Success 200 {object} PromptResponse "Edit applied"
// @Failure 409 {object} ErrorResponse "Another prompt is pending"
// @Failure 408 {object} ErrorResponse "Prompt cancelled or timed out"
// @Router /sessions/{sessionID}/prompt [post]

// GenerateCode converts the diagram to code
// @Summary Generate code
// @Tags codegen
// @Produce json
// @Param sessionID path string true "Session ID"
// @Success 200 {object} GenerateResponse "Generated code"
// @Router /sessions/{sessionID}/generate [post]

// GetArtifact returns the last generated code
// @Summary Get generated code
// @Tags codegen
// @Produce json
// @Produce plain
// @Param sessionID path string true "Session ID"
// @Param format query string false "text for plain output"
// @Success 200 {object} services.GeneratedArtifact "Current artifact"
// @Failure 404 {object} ErrorResponse "Nothing generated yet"
// @Router /sessions/{sessionID}/artifact [get]
