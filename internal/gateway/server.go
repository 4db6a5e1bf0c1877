// Package gateway is the browser-facing process: it terminates the session
// cookie, guards page navigations, and proxies API calls to the backend with
// the session's bearer token attached.
package gateway

import (
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"wanderlist/internal/config"
	"wanderlist/internal/guard"
	"wanderlist/internal/session"
)

type Server struct {
	router *gin.Engine
	cfg    *config.Config
	log    *logrus.Logger
	logger *zap.Logger

	bridge *session.Bridge
	guard  *guard.Guard

	apiProxy  *httputil.ReverseProxy
	pageProxy *httputil.ReverseProxy
}

func NewServer(cfg *config.Config, bridge *session.Bridge, g *guard.Guard, logger *zap.Logger, log *logrus.Logger) (*Server, error) {
	backendURL, err := url.Parse(cfg.Gateway.BackendURL)
	if err != nil {
		return nil, err
	}
	frontendURL, err := url.Parse(cfg.Gateway.FrontendURL)
	if err != nil {
		return nil, err
	}

	s := &Server{
		router:    gin.Default(),
		cfg:       cfg,
		log:       log,
		logger:    logger,
		bridge:    bridge,
		guard:     g,
		apiProxy:  httputil.NewSingleHostReverseProxy(backendURL),
		pageProxy: httputil.NewSingleHostReverseProxy(frontendURL),
	}

	s.setupRoutes()
	return s, nil
}

func (s *Server) setupRoutes() {
	sess := s.router.Group("/session")
	sess.GET("", s.getSession)
	sess.POST("/login", s.login)
	sess.POST("/logout", s.logout)
	sess.PATCH("/profile", s.refreshProfile)

	// API calls from the browser get the bearer token attached server-side;
	// the token never reaches page scripts.
	s.router.Any("/api/*path", s.proxyAPI)

	// Everything else is a page navigation and goes through the guard.
	s.router.NoRoute(s.servePage)
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	newSession := s.bridge.Login(c.Request.Context(), req.Email, req.Password)
	if newSession == nil {
		// The bridge already logged the cause; the browser gets one generic
		// message for every failure mode.
		c.JSON(http.StatusUnauthorized, gin.H{"message": "login failed"})
		return
	}

	if err := s.bridge.Store().Write(c.Writer, newSession); err != nil {
		s.log.Errorf("Failed to write session cookie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "login failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": sessionView(newSession)})
}

func (s *Server) logout(c *gin.Context) {
	s.bridge.Store().Clear(c.Writer)
	c.Status(http.StatusNoContent)
}

func (s *Server) getSession(c *gin.Context) {
	current := s.bridge.Store().Read(c.Request)
	if current == nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": sessionView(current)})
}

// refreshProfile updates the session's display fields in place after a
// profile edit. The token is not reissued and the backend is not called.
func (s *Server) refreshProfile(c *gin.Context) {
	current := s.bridge.Store().Read(c.Request)
	if current == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "no session"})
		return
	}

	var patch session.ProfilePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	updated := s.bridge.RefreshProfile(current, patch)
	if err := s.bridge.Store().Write(c.Writer, updated); err != nil {
		s.log.Errorf("Failed to write session cookie: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"message": "failed to update session"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"user": sessionView(updated)})
}

func (s *Server) proxyAPI(c *gin.Context) {
	if current := s.bridge.Store().Read(c.Request); current != nil {
		c.Request.Header.Set("Authorization", "Bearer "+current.Token)
	}
	// The session cookie is a gateway concern; the backend never sees it.
	c.Request.Header.Del("Cookie")
	s.apiProxy.ServeHTTP(c.Writer, c.Request)
}

func (s *Server) servePage(c *gin.Context) {
	current := s.bridge.Store().Read(c.Request)
	decision := s.guard.Evaluate(c.Request.URL.Path, current)

	switch decision.Action {
	case guard.Redirect:
		c.Redirect(http.StatusFound, decision.Target)
	case guard.Rewrite:
		// Serve the target's content under the original URL.
		rewritten, err := url.Parse(decision.Target)
		if err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.Request.URL.Path = rewritten.Path
		c.Request.URL.RawQuery = rewritten.RawQuery
		s.pageProxy.ServeHTTP(c.Writer, c.Request)
	default:
		s.pageProxy.ServeHTTP(c.Writer, c.Request)
	}
}

// sessionView is the session minus the token: pages never see the credential.
func sessionView(s *session.Session) gin.H {
	return gin.H{
		"id":       s.ID,
		"name":     s.Name,
		"username": s.Username,
		"email":    s.Email,
		"role":     s.Role,
		"avatar":   s.Avatar,
	}
}

func (s *Server) Run(addr string) {
	s.log.Infof("Gateway starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Gateway failed to start: %v", err)
	}
}

// Router exposes the mux for tests.
func (s *Server) Router() *gin.Engine { return s.router }
