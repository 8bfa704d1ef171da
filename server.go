package main

import (
	"context"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"time"

	"khaata/pkg/logger"
	"khaata/pkg/receipt"
	"khaata/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
	"gorm.io/gorm"
)

// app carries the dependencies every handler needs.
type app struct {
	store         *store.Store
	tokens        *tokens
	scanner       receipt.Scanner
	log           *slog.Logger
	templates     *template.Template
	pages         map[string]template.HTML
	currency      string
	secureCookies bool
}

func newApp(cfg *Config, db *gorm.DB, scanner receipt.Scanner, log *slog.Logger) (*app, error) {
	tmpl, err := loadTemplates()
	if err != nil {
		return nil, err
	}
	pages, err := loadPages("about", "contact")
	if err != nil {
		return nil, err
	}
	if cfg.Session.Secret == devSessionSecret {
		log.Warn("SESSION_SECRET not set, using development secret")
	}
	return &app{
		store:         store.New(db),
		tokens:        newTokens(cfg.Session.Secret, cfg.Session.TTL),
		scanner:       scanner,
		log:           log,
		templates:     tmpl,
		pages:         pages,
		currency:      cfg.Currency,
		secureCookies: cfg.Env == logger.EnvProd,
	}, nil
}

func newRouter(a *app) *gin.Engine {
	r := gin.New()
	r.Use(requestLogger(a.log), gin.CustomRecovery(a.recoverHandler), a.errorHandler)
	r.SetHTMLTemplate(a.templates)
	r.MaxMultipartMemory = 8 << 20
	setupRoutes(r, a)
	return r
}

func setupRoutes(r *gin.Engine, a *app) {
	r.GET("/", a.homeHandler)

	r.GET("/signup", a.signupPageHandler)
	r.POST("/save", a.validateUserInput, a.checkUserExists, a.saveUserHandler)
	r.GET("/login", a.loginPageHandler)
	r.POST("/verify", a.validateUserInput, a.verifyUserCredentials, a.verifyHandler)
	r.GET("/logout", a.logoutHandler)

	r.GET("/:username/hisaab", a.requireSession, a.hisaabHandler)
	r.GET("/:username/addHisaab", a.requireSession, a.addHisaabPageHandler)
	r.POST("/:username/scanHisaab", a.requireSession, a.scanHisaabHandler)
	r.GET("/:username/edit/:id", a.requireSession, a.editHisaabHandler)
	r.POST("/saveHisaab", a.requireSession, a.saveHisaabHandler)

	r.GET("/about", a.staticPageHandler("about", "About", "About Page"))
	r.GET("/contact", a.staticPageHandler("contact", "Contact", "Contact Page"))

	admin := r.Group("")
	admin.Use(a.adminOnly)
	admin.GET("/readall", a.readAllHandler)
	admin.GET("/readallhisaab", a.readAllHisaabHandler)
	admin.GET("/eraseall", a.eraseAllHandler)

	r.NoRoute(a.notFoundHandler)
	r.NoMethod(a.notFoundHandler)
}

// serve runs the HTTP server until ctx is cancelled, then shuts it down gracefully.
func serve(ctx context.Context, addr string, h http.Handler, log *slog.Logger) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      h,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		log.Info("server live", slog.String("addr", "http://localhost"+addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func requestLogger(log *slog.Logger) gin.HandlerFunc {
	log = log.With(slog.String("component", "http_logger"))
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.Info("HTTP request",
			slog.String("method", c.Request.Method),
			slog.String("path", c.Request.URL.Path),
			slog.Int("status", c.Writer.Status()),
			slog.Duration("duration", time.Since(start)),
			slog.String("remote_addr", c.ClientIP()),
		)
	}
}

// errorHandler renders the generic error page for any error recorded with fail.
func (a *app) errorHandler(c *gin.Context) {
	c.Next()
	if len(c.Errors) == 0 || c.Writer.Written() {
		return
	}
	a.log.Error("Error occurred",
		slog.String("path", c.Request.URL.Path),
		logger.Err(c.Errors.Last()),
	)
	c.HTML(http.StatusInternalServerError, "error", getLocals("Error", "Error", gin.H{"message": genericError}))
}

func (a *app) recoverHandler(c *gin.Context, recovered any) {
	a.log.Error("panic recovered", slog.String("path", c.Request.URL.Path), slog.Any("panic", recovered))
	c.HTML(http.StatusInternalServerError, "error", getLocals("Error", "Error", gin.H{"message": genericError}))
	c.Abort()
}

// fail hands err to errorHandler and stops the chain.
func fail(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}

func redirect(c *gin.Context, location string) {
	c.Redirect(http.StatusFound, location)
	c.Abort()
}
