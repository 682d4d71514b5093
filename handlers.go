package main

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"guestlist/metrics"
	"guestlist/models"
	"guestlist/pkg/notify"
	"guestlist/pkg/upload"
	"guestlist/store"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	guests   *store.GuestStore
	profiles *store.ProfileStore
	resumes  *store.ResumeStore
	uploader upload.Uploader
	mailer   *notify.Mailer
)

// initServices wires the stores and collaborators from the env. Must run
// after initDB.
func initServices() {
	guests = store.NewGuestStore(db)
	profiles = store.NewProfileStore(db)
	resumes = store.NewResumeStore(db)

	if os.Getenv("UPLOAD_BACKEND") == "s3" {
		bucket := os.Getenv("S3_BUCKET")
		if bucket == "" {
			log.Fatal("UPLOAD_BACKEND=s3 requires S3_BUCKET")
		}
		s3up, err := upload.NewS3Store(context.Background(), bucket, os.Getenv("S3_PUBLIC_BASE"))
		if err != nil {
			log.Fatal("failed to init s3 uploader:", err)
		}
		uploader = s3up
	} else {
		uploader = upload.NewLocalStore(uploadBaseDir(), "/files")
	}

	smtpPort := 587
	if v := os.Getenv("SMTP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			smtpPort = p
		}
	}
	mailer = notify.NewMailer(notify.Config{
		Enabled:   os.Getenv("NOTIFY_ENABLED") == "true",
		SMTPHost:  os.Getenv("SMTP_HOST"),
		SMTPPort:  smtpPort,
		Username:  os.Getenv("SMTP_USERNAME"),
		Password:  os.Getenv("SMTP_PASSWORD"),
		FromEmail: os.Getenv("NOTIFY_FROM"),
		FromName:  os.Getenv("NOTIFY_FROM_NAME"),
	})
}

func setupRoutes(r *gin.Engine) {
	r.Use(metrics.Middleware())
	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/files", uploadBaseDir())

	r.POST("/login", loginHandler)
	r.POST("/refresh", refreshHandler)
	r.POST("/revoke_refresh", revokeRefreshHandler)

	r.GET("/profile", getProfileHandler)
	r.GET("/guests", listGuestsHandler)
	r.POST("/guests", createGuestHandler)
	r.GET("/resume", getCurrentResumeHandler)
	r.POST("/resume/:id/download", downloadResumeHandler)

	admin := r.Group("/admin")
	admin.Use(jwtAuthMiddleware())
	admin.GET("/guests", adminListGuestsHandler)
	admin.GET("/guests/:id", adminGetGuestHandler)
	admin.DELETE("/guests/:id", adminDeleteGuestHandler)
	admin.POST("/guests/:id/toggle_hidden", adminToggleHiddenHandler)
	admin.PUT("/profile", adminUpdateProfileHandler)
	admin.GET("/resumes", adminListResumesHandler)
	admin.POST("/resumes", adminCreateResumeHandler)
	admin.POST("/resumes/:id/set_current", adminSetCurrentResumeHandler)
	admin.DELETE("/resumes/:id", adminDeleteResumeHandler)
	admin.POST("/uploads", adminUploadImageHandler)
}

func jwtAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || len(authHeader) < 8 || authHeader[:7] != "Bearer " {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing or invalid Authorization header"})
			c.Abort()
			return
		}
		tokenString := authHeader[7:]
		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrInvalidKeyType
			}
			return jwtSecret, nil
		})
		if err != nil || !token.Valid {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}
		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid claims"})
			c.Abort()
			return
		}
		role, _ := claims["role"].(string)
		if role != "admin" {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		username, _ := claims["username"].(string)
		c.Set("username", username)
		c.Set("role", role)
		c.Next()
	}
}

// httpError maps store errors onto status codes.
func httpError(c *gin.Context, err error) {
	var ve *store.ValidationError
	switch {
	case errors.As(err, &ve):
		c.JSON(http.StatusBadRequest, gin.H{"error": ve.Message, "field": ve.Field})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, store.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		log.Printf("store error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func paramID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return uint(id), true
}

// ---- auth ----

func loginHandler(c *gin.Context) {
	var req struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	admin, err := Authenticate(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": admin.Username,
		"role":     "admin",
		"exp":      time.Now().Add(time.Hour * 24).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	refreshToken, err := createAndStoreRefreshToken(admin.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "login successful", "token": tokenString, "refresh_token": refreshToken})
}

// createAndStoreRefreshToken generates a random refresh token, stores its hash with expiry and returns the raw token string
func createAndStoreRefreshToken(adminID uint) (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	token := hex.EncodeToString(b)
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	rt := models.RefreshToken{AdminID: adminID, TokenHash: th, ExpiresAt: time.Now().Add(30 * 24 * time.Hour)}
	if err := db.Create(&rt).Error; err != nil {
		return "", err
	}
	return token, nil
}

func findRefreshTokenByRaw(token string) (*models.RefreshToken, error) {
	h := sha256.Sum256([]byte(token))
	th := hex.EncodeToString(h[:])
	var rt models.RefreshToken
	if err := db.Where("token_hash = ?", th).First(&rt).Error; err != nil {
		return nil, err
	}
	return &rt, nil
}

// refreshHandler exchanges a refresh token for a new access token and rotates the refresh token
func refreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil || rt.Revoked || time.Now().After(rt.ExpiresAt) {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired refresh token"})
		return
	}
	var admin models.Admin
	if err := db.First(&admin, rt.AdminID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
		return
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"username": admin.Username,
		"role":     "admin",
		"exp":      time.Now().Add(15 * time.Minute).Unix(),
	})
	tokenString, err := token.SignedString(jwtSecret)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to generate token"})
		return
	}
	// rotate refresh token: revoke existing and create new one
	db.Model(&models.RefreshToken{}).Where("id = ?", rt.ID).Update("revoked", true)
	newRT, err := createAndStoreRefreshToken(admin.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to rotate refresh token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokenString, "refresh_token": newRT})
}

// revokeRefreshHandler revokes a given refresh token (useful on logout)
func revokeRefreshHandler(c *gin.Context) {
	var req struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	rt, err := findRefreshTokenByRaw(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "refresh token not found"})
		return
	}
	rt.Revoked = true
	if err := db.Save(rt).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "refresh token revoked"})
}

// ---- guests ----

// publicGuest is the visitor-facing projection of a guest entry. Contact
// details and the private note never leave the admin routes.
type publicGuest struct {
	ID              uint      `json:"id"`
	DisplayName     string    `json:"displayName"`
	PublicAction    string    `json:"publicAction"`
	Role            string    `json:"role"`
	ProfileImageURL string    `json:"profileImageUrl,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

// displayName renders the stored name per the visitor's preference. The
// stored name itself stays verbatim.
func displayName(g *models.Guest) string {
	switch g.DisplayNamePref {
	case "anonymous":
		return "Anonymous"
	case "initial":
		fields := strings.Fields(g.Name)
		if len(fields) > 1 {
			last := []rune(fields[len(fields)-1])
			return fields[0] + " " + string(last[0]) + "."
		}
		return g.Name
	default:
		return g.Name
	}
}

func listGuestsHandler(c *gin.Context) {
	items, err := guests.List(false)
	if err != nil {
		httpError(c, err)
		return
	}
	out := make([]publicGuest, len(items))
	for i := range items {
		g := &items[i]
		out[i] = publicGuest{
			ID:              g.ID,
			DisplayName:     displayName(g),
			PublicAction:    g.PublicAction,
			Role:            g.Role,
			ProfileImageURL: g.ProfileImageURL,
			CreatedAt:       g.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, out)
}

func createGuestHandler(c *gin.Context) {
	var in store.GuestInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	g, err := guests.Create(in)
	if err != nil {
		httpError(c, err)
		return
	}
	metrics.RecordGuestSubmission()
	notifyGuestAdded(g)
	c.JSON(http.StatusOK, g)
}

// notifyGuestAdded emails the admin about a new entry. Failures are logged
// and swallowed; the guest row is already committed.
func notifyGuestAdded(g *models.Guest) {
	go func() {
		p, err := profiles.Get()
		if err != nil {
			log.Printf("guest notification skipped: %v", err)
			return
		}
		subject, body := notify.GuestAddedMessage(g.Name, g.Email, g.Role, g.PublicAction, g.CreatedAt)
		if err := mailer.Send(p.NotificationEmail, subject, body); err != nil {
			log.Printf("failed to send guest notification: %v", err)
		}
	}()
}

func adminListGuestsHandler(c *gin.Context) {
	includeHidden := true
	if v := c.Query("include_hidden"); v != "" {
		includeHidden = v == "true" || v == "1"
	}
	items, err := guests.List(includeHidden)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

func adminGetGuestHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	g, err := guests.GetByID(id)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

func adminDeleteGuestHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := guests.Delete(id); err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func adminToggleHiddenHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	g, err := guests.ToggleHidden(id)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, g)
}

// ---- profile ----

func getProfileHandler(c *gin.Context) {
	p, err := profiles.Get()
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func adminUpdateProfileHandler(c *gin.Context) {
	var in store.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	p, err := profiles.Update(in)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// adminUploadImageHandler stores a profile image (kind=avatar or app_icon),
// normalizes it and records the resulting URL on the profile.
func adminUploadImageHandler(c *gin.Context) {
	kind := c.DefaultQuery("kind", "avatar")
	maxDim := upload.AvatarMaxDim
	if kind == "app_icon" {
		maxDim = upload.AppIconMaxDim
	} else if kind != "avatar" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "kind must be avatar or app_icon"})
		return
	}
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	ct := file.Header.Get("Content-Type")
	if err := upload.CheckImage(ct, file.Size); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}
	defer src.Close()
	normalized, err := upload.NormalizeImage(src, maxDim)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := uploader.Store(c.Request.Context(), file.Filename, "image/png",
		bytes.NewReader(normalized), int64(len(normalized)))
	if err != nil {
		log.Printf("image upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}

	p, err := profiles.Get()
	if err != nil {
		httpError(c, err)
		return
	}
	in := profileInputFromRow(p)
	if kind == "avatar" {
		in.ProfilePictureURL = res.URL
	} else {
		in.AppIconURL = res.URL
	}
	p, err = profiles.Update(in)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"upload": res, "profile": p})
}

func profileInputFromRow(p *models.Profile) store.ProfileInput {
	return store.ProfileInput{
		Name:                p.Name,
		AboutMe:             p.AboutMe,
		NetworkingStatement: p.NetworkingStatement,
		ProfilePictureURL:   p.ProfilePictureURL,
		AppIconURL:          p.AppIconURL,
		LinkedinURL:         p.LinkedinURL,
		GithubURL:           p.GithubURL,
		BuyMeACoffeeURL:     p.BuyMeACoffeeURL,
		PortfolioURL:        p.PortfolioURL,
		ResumeURL:           p.ResumeURL,
		NotificationEmail:   p.NotificationEmail,
	}
}

// ---- resumes ----

func getCurrentResumeHandler(c *gin.Context) {
	r, err := resumes.GetCurrent()
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// downloadResumeHandler confirms a download: bumps the counter and notifies
// the admin. The file itself is fetched from the recorded fileUrl.
func downloadResumeHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	r, err := resumes.IncrementDownloadCount(id)
	if err != nil {
		httpError(c, err)
		return
	}
	metrics.RecordResumeDownload()
	notifyResumeDownloaded(r)
	c.JSON(http.StatusOK, r)
}

func notifyResumeDownloaded(r *models.Resume) {
	go func() {
		p, err := profiles.Get()
		if err != nil {
			log.Printf("download notification skipped: %v", err)
			return
		}
		subject, body := notify.ResumeDownloadedMessage(r.FileName, r.DownloadCount, time.Now())
		if err := mailer.Send(p.NotificationEmail, subject, body); err != nil {
			log.Printf("failed to send download notification: %v", err)
		}
	}()
}

func adminListResumesHandler(c *gin.Context) {
	items, err := resumes.List()
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// adminCreateResumeHandler accepts a multipart pdf, stores it through the
// upload backend and records the new version as current.
func adminCreateResumeHandler(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file missing"})
		return
	}
	ct := file.Header.Get("Content-Type")
	if err := upload.CheckResume(ct, file.Size); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	src, err := file.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to read file"})
		return
	}
	defer src.Close()
	res, err := uploader.Store(c.Request.Context(), file.Filename, ct, src, file.Size)
	if err != nil {
		log.Printf("resume upload failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "upload failed"})
		return
	}
	r, err := resumes.Create(store.ResumeInput{
		FileName: res.FileName,
		FileURL:  res.URL,
		FileSize: res.FileSize,
		FileType: res.FileType,
		UploadID: res.ExternalID,
	})
	if err != nil {
		httpError(c, err)
		return
	}
	metrics.RecordResumeUpload()
	c.JSON(http.StatusOK, r)
}

func adminSetCurrentResumeHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	r, err := resumes.SetCurrent(id)
	if err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, r)
}

func adminDeleteResumeHandler(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	if err := resumes.Delete(id); err != nil {
		httpError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
