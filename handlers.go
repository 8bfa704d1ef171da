package main

import (
	"errors"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"khaata/models"
	"khaata/pkg/amount"
	"khaata/pkg/logger"
	"khaata/pkg/receipt"
	"khaata/store"

	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slog"
)

const maxReceiptSize = 5 * 1024 * 1024

var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02T15:04",
	time.RFC3339,
}

// credentialsForm is the body of the signup and login forms.
type credentialsForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
	Name     string `form:"name"`
	Image    string `form:"image"`
}

// hisaabForm is the body of the add-entry form.
type hisaabForm struct {
	Username    string `form:"username"`
	Date        string `form:"date"`
	Amount      string `form:"amount" binding:"required"`
	Description string `form:"description"`
	Encrypt     string `form:"encrypt"`
	Passcode    string `form:"passcode"`
}

func (a *app) homeHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "home", getLocals("Home Page", "Home Page", nil))
}

func (a *app) signupPageHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "signup", getLocals("Sign Up", "Sign Up", gin.H{"query": queryMarkers(c)}))
}

func (a *app) loginPageHandler(c *gin.Context) {
	c.HTML(http.StatusOK, "login", getLocals("Login", "Login", gin.H{"query": queryMarkers(c)}))
}

// saveUserHandler creates the account after validateUserInput and checkUserExists.
func (a *app) saveUserHandler(c *gin.Context) {
	form := credentials(c)
	username := form.Username
	_, err := registerUser(c.Request.Context(), a.store, username, form.Password, form.Name, form.Image)
	if err != nil {
		if errors.Is(err, store.ErrUserExists) {
			redirect(c, "/signup?error=exists")
			return
		}
		fail(c, err)
		return
	}
	a.log.Info("New user created", slog.String("username", username))
	c.Redirect(http.StatusFound, "/login?success=created")
}

// verifyHandler runs after verifyUserCredentials: it starts the session and
// sends the user to their ledger.
func (a *app) verifyHandler(c *gin.Context) {
	user := c.MustGet("currentUser").(*models.User)
	token, err := a.tokens.issue(user.Username, "", 0)
	if err != nil {
		fail(c, err)
		return
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, token, int(a.tokens.ttl.Seconds()), "/", "", a.secureCookies, true)
	a.log.Info("User logged in", slog.String("username", user.Username))
	c.Redirect(http.StatusFound, ledgerPath(user.Username))
}

func (a *app) logoutHandler(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(sessionCookie, "", -1, "/", "", a.secureCookies, true)
	c.Redirect(http.StatusFound, "/login")
}

func (a *app) hisaabHandler(c *gin.Context) {
	username := c.Param("username")
	user, ok := a.loadUser(c, username)
	if !ok {
		return
	}

	amounts := make([]string, len(user.Hisaabs))
	for i, h := range user.Hisaabs {
		amounts[i] = h.Amount
	}
	total, skipped := amount.Sum(amounts)

	var placeholder []string
	if len(user.Hisaabs) == 0 {
		placeholder = []string{"No Hisaab Found"}
	}
	c.HTML(http.StatusOK, "myHisaab", getLocals("My Hisaab", "Hisaab Page", gin.H{
		"username":    username,
		"name":        user.DisplayName(),
		"hisaabs":     user.Hisaabs,
		"placeholder": placeholder,
		"total":       amount.Format(total, a.currency),
		"skipped":     skipped,
		"query":       queryMarkers(c),
	}))
}

func (a *app) addHisaabPageHandler(c *gin.Context) {
	username := c.Param("username")
	if _, ok := a.loadUser(c, username); !ok {
		return
	}
	a.renderAddForm(c, http.StatusOK, username, "", "", queryMarkers(c))
}

// scanHisaabHandler reads the amount off an uploaded receipt and shows the
// add form pre-filled with it.
func (a *app) scanHisaabHandler(c *gin.Context) {
	username := c.Param("username")
	if _, ok := a.loadUser(c, username); !ok {
		return
	}
	file, err := c.FormFile("receipt")
	if err != nil || file.Size > maxReceiptSize {
		redirect(c, "/"+url.PathEscape(username)+"/addHisaab?error=missing")
		return
	}

	tmp, err := os.MkdirTemp("", "khaata-receipt-*")
	if err != nil {
		fail(c, err)
		return
	}
	defer os.RemoveAll(tmp)
	path := filepath.Join(tmp, filepath.Base(file.Filename))
	if err := c.SaveUploadedFile(file, path); err != nil {
		fail(c, err)
		return
	}

	res, err := a.scanner.Scan(c.Request.Context(), path)
	if err != nil {
		if !errors.Is(err, receipt.ErrNoAmount) {
			a.log.Warn("receipt scan failed", slog.String("username", username), logger.Err(err))
		}
		a.renderAddForm(c, http.StatusOK, username, "", "", gin.H{"error": "noamount", "success": ""})
		return
	}
	a.renderAddForm(c, http.StatusOK, username, res.Amount.StringFixed(2), "Receipt "+file.Filename, queryMarkers(c))
}

// saveHisaabHandler appends a new entry to the user named in the form.
func (a *app) saveHisaabHandler(c *gin.Context) {
	var form hisaabForm
	err := c.ShouldBind(&form)
	username := strings.TrimSpace(form.Username)
	amt := strings.TrimSpace(form.Amount)
	if err != nil || amt == "" {
		a.log.Debug("Missing amount.", slog.String("username", username))
		redirect(c, ledgerPath(username)+"?error=missing")
		return
	}

	now := time.Now().UTC()
	h := &models.Hisaab{
		Date:        parseDate(form.Date, now),
		Amount:      amt,
		Description: orDefault(form.Description, models.DefaultDescription),
		Encrypt:     form.Encrypt == "on",
		Passcode:    orDefault(form.Passcode, models.DefaultPasscode),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := a.store.AppendHisaab(c.Request.Context(), username, h); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.log.Debug("User not found.", slog.String("username", username))
			redirect(c, "/signup?error=notfound")
			return
		}
		a.log.Error("Cannot add to database.", logger.Err(err))
		fail(c, err)
		return
	}
	a.log.Info("New hisaab added", slog.String("username", username), slog.Uint64("id", uint64(h.ID)))
	c.Redirect(http.StatusFound, ledgerPath(username)+"?success=added")
}

// editHisaabHandler renders the edit form for one entry. There is no submit
// handler; the page is read-only.
func (a *app) editHisaabHandler(c *gin.Context) {
	username := c.Param("username")
	user, ok := a.loadUser(c, username)
	if !ok {
		return
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	var h *models.Hisaab
	if err == nil {
		h, ok = user.FindHisaab(uint(id))
	}
	if err != nil || !ok {
		a.log.Debug("Hisaab not found", slog.String("id", c.Param("id")))
		redirect(c, ledgerPath(username)+"?error=notfound")
		return
	}
	c.HTML(http.StatusOK, "editHisaab", getLocals("Edit Hisaab", "Edit Hisaab Page", gin.H{
		"today":    formatDate(time.Now()),
		"username": username,
		"hisaab": gin.H{
			"id":          h.ID,
			"date":        formatDate(h.Date),
			"amount":      h.Amount,
			"description": h.Description,
			"encrypt":     h.Encrypt,
			"passcode":    h.Passcode,
		},
	}))
}

func (a *app) readAllHandler(c *gin.Context) {
	a.dumpUsers(c, "No users found.")
}

func (a *app) readAllHisaabHandler(c *gin.Context) {
	a.dumpUsers(c, "No hisaab found.")
}

func (a *app) dumpUsers(c *gin.Context, emptyMsg string) {
	users, err := a.store.ListUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	if len(users) == 0 {
		a.log.Debug(emptyMsg)
		c.String(http.StatusNotFound, emptyMsg)
		return
	}
	c.JSON(http.StatusOK, users)
}

func (a *app) eraseAllHandler(c *gin.Context) {
	n, err := a.store.DeleteAllUsers(c.Request.Context())
	if err != nil {
		fail(c, err)
		return
	}
	a.log.Info("All users erased.", slog.Int64("count", n))
	c.Redirect(http.StatusFound, "/")
}

func (a *app) staticPageHandler(page, title, header string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.HTML(http.StatusOK, page, getLocals(title, header, gin.H{"message": a.pages[page]}))
	}
}

func (a *app) notFoundHandler(c *gin.Context) {
	a.log.Debug("Page not found", slog.String("url", c.Request.URL.String()))
	c.HTML(http.StatusNotFound, "notFound", getLocals("404", "404 Page", gin.H{"message": "Page not found."}))
}

// loadUser fetches username or redirects to login when it does not exist.
func (a *app) loadUser(c *gin.Context, username string) (*models.User, bool) {
	user, err := a.store.FindUser(c.Request.Context(), username)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			a.log.Debug("User not found", slog.String("username", username))
			redirect(c, "/login?error=invalid")
			return nil, false
		}
		fail(c, err)
		return nil, false
	}
	return user, true
}

func (a *app) renderAddForm(c *gin.Context, status int, username, amt, description string, query gin.H) {
	c.HTML(status, "addHisaab", getLocals("Add Hisaab", "Hisaab Page", gin.H{
		"username":         username,
		"today":            formatDate(time.Now()),
		"amount":           amt,
		"descriptionValue": description,
		"query":            query,
	}))
}

func ledgerPath(username string) string {
	return "/" + url.PathEscape(username) + "/hisaab"
}

// parseDate accepts the date input formats the forms send and falls back to def.
func parseDate(s string, def time.Time) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return def
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}
