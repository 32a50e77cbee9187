package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/ads"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/callcenter"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/columns"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/contacts"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/investor"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/business/performance"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/config"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/facebook"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/metrics"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/pyapi"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/setmarket"
	"github.com/bujeonghospital-dev/React-Business-sub001/internal/platform/yalecom"
	"github.com/bujeonghospital-dev/React-Business-sub001/pkg/model"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// PerformanceService builds the surgery-schedule reports.
type PerformanceService interface {
	BuildMonthReport(ctx context.Context, month time.Month, year int) (performance.MonthReport, error)
	CellDetail(ctx context.Context, table, row string, month time.Month, year, day int) ([]model.Record, error)
	Targets(ctx context.Context) map[string]int
	SetTargets(ctx context.Context, byRow map[string]int) error
}

// ContactService lists and edits customer contacts.
type ContactService interface {
	List(ctx context.Context, query string) ([]model.Contact, bool, error)
	Create(ctx context.Context, c model.Contact) (model.Contact, error)
	UpdateRemarks(ctx context.Context, id, remarks, nextContactDate string) error
	UpdateStatus(ctx context.Context, id, status string) error
}

// CallCenterService records calls and builds the call-center views.
type CallCenterService interface {
	RecordCall(ctx context.Context, l model.CallLog) (model.CallLog, error)
	Matrix(ctx context.Context, date string) (callcenter.Matrix, error)
	Outcomes(ctx context.Context, date string) (performance.CountTable, int, error)
	Queue(ctx context.Context) (callcenter.QueueSnapshot, error)
}

// AdsService builds the Facebook messaging report.
type AdsService interface {
	Report(ctx context.Context, q facebook.Query) (ads.Report, error)
}

// StockService serves investor quotes.
type StockService interface {
	Quotes(ctx context.Context, symbol string) ([]model.StockQuote, error)
}

// Deps wires the router. Nil services answer with a configuration error.
type Deps struct {
	Performance    PerformanceService
	Contacts       ContactService
	CallCenter     CallCenterService
	Ads            AdsService
	Stock          StockService
	Metrics        *metrics.Metrics
	Logger         *zap.Logger
	AllowedOrigins string
	Location       *time.Location
	Now            func() time.Time
	AccessLog      bool
}

// Router wires HTTP handlers.
type Router struct {
	perf     PerformanceService
	contacts ContactService
	calls    CallCenterService
	ads      AdsService
	stock    StockService
	logger   *zap.Logger
	origins  string
	loc      *time.Location
	now      func() time.Time
}

func NewRouter(d Deps) *gin.Engine {
	r := &Router{
		perf:     d.Performance,
		contacts: d.Contacts,
		calls:    d.CallCenter,
		ads:      d.Ads,
		stock:    d.Stock,
		logger:   d.Logger,
		origins:  d.AllowedOrigins,
		loc:      d.Location,
		now:      d.Now,
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	if r.loc == nil {
		r.loc = time.Local
	}
	if r.now == nil {
		r.now = time.Now
	}

	router := gin.New()
	if d.AccessLog {
		router.Use(gin.Logger())
	}
	router.Use(gin.Recovery(), r.corsMiddleware(), d.Metrics.Middleware())

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	api := router.Group("/api")
	{
		perf := api.Group("/performance")
		perf.GET("/report", r.getReport)
		perf.GET("/cell", r.getCell)
		perf.GET("/export.xlsx", r.exportReport)
		perf.GET("/targets", r.getTargets)
		perf.PUT("/targets", r.putTargets)

		api.GET("/contacts", r.listContacts)
		api.POST("/contacts", r.createContact)
		api.PUT("/contacts/:id/remarks", r.updateRemarks)
		api.PUT("/contacts/:id/status", r.updateStatus)

		cc := api.Group("/callcenter")
		cc.GET("/queue", r.getQueue)
		cc.POST("/call-logs", r.createCallLog)
		cc.GET("/matrix", r.getMatrix)
		cc.GET("/outcomes", r.getOutcomes)

		api.GET("/ads/insights", r.getAdInsights)
		api.GET("/stock", r.getStock)
	}

	return router
}

func (r *Router) corsMiddleware() gin.HandlerFunc {
	origins := strings.Split(r.origins, ",")
	trimmed := make([]string, 0, len(origins))
	for _, o := range origins {
		if t := strings.TrimSpace(o); t != "" {
			trimmed = append(trimmed, t)
		}
	}
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		allowed := "*"
		for _, o := range trimmed {
			if o == "*" || o == origin {
				allowed = origin
				break
			}
		}
		c.Header("Access-Control-Allow-Origin", allowed)
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		c.Header("Access-Control-Expose-Headers", "X-Cache-Status, Content-Disposition")
		if c.Request.Method == http.MethodOptions {
			c.Status(http.StatusNoContent)
			c.Abort()
			return
		}
		c.Next()
	}
}

func ok(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, gin.H{"success": true, "data": data})
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

func notConfigured(c *gin.Context, what string) {
	fail(c, http.StatusInternalServerError, "ยังไม่ได้ตั้งค่า "+what)
}

// fromError maps domain errors to a status code and responds.
func (r *Router) fromError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	msg := err.Error()
	switch {
	case errors.Is(err, performance.ErrInvalidPeriod),
		errors.Is(err, performance.ErrUnknownTable),
		errors.Is(err, callcenter.ErrInvalidCallLog),
		errors.Is(err, contacts.ErrInvalidContact),
		errors.Is(err, contacts.ErrInvalidStatus):
		status = http.StatusBadRequest
	case errors.Is(err, performance.ErrUnknownRow),
		errors.Is(err, investor.ErrSymbolNotFound):
		status = http.StatusNotFound
	case errors.Is(err, facebook.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, config.ErrMissingCredentials),
		errors.Is(err, contacts.ErrNotConfigured),
		errors.Is(err, facebook.ErrNotConfigured),
		errors.Is(err, setmarket.ErrNotConfigured),
		errors.Is(err, yalecom.ErrNotConfigured),
		errors.Is(err, pyapi.ErrNotConfigured):
		msg = "ยังไม่ได้ตั้งค่าการเชื่อมต่อ: " + msg
	case errors.Is(err, columns.ErrColumnsNotFound),
		errors.Is(err, pyapi.ErrCircuitOpen):
		status = http.StatusBadGateway
	}
	if status >= http.StatusInternalServerError {
		r.logger.Error("request failed", zap.String("route", c.FullPath()), zap.Error(err))
	}
	fail(c, status, msg)
}

// period reads month and year, defaulting to the current clinic month.
func (r *Router) period(c *gin.Context) (time.Month, int, error) {
	today := r.now().In(r.loc)
	month, year := today.Month(), today.Year()
	if v := c.Query("month"); v != "" {
		m, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: month %q", performance.ErrInvalidPeriod, v)
		}
		month = time.Month(m)
	}
	if v := c.Query("year"); v != "" {
		y, err := strconv.Atoi(v)
		if err != nil {
			return 0, 0, fmt.Errorf("%w: year %q", performance.ErrInvalidPeriod, v)
		}
		year = y
	}
	return month, year, nil
}

func (r *Router) getReport(c *gin.Context) {
	if r.perf == nil {
		notConfigured(c, "performance")
		return
	}
	month, year, err := r.period(c)
	if err != nil {
		r.fromError(c, err)
		return
	}
	rep, err := r.perf.BuildMonthReport(c.Request.Context(), month, year)
	if err != nil {
		r.fromError(c, err)
		return
	}
	ok(c, rep)
}

func (r *Router) getCell(c *gin.Context) {
	if r.perf == nil {
		notConfigured(c, "performance")
		return
	}
	month, year, err := r.period(c)
	if err != nil {
		r.fromError(c, err)
		return
	}
	day, err := strconv.Atoi(c.Query("day"))
	if err != nil {
		fail(c, http.StatusBadRequest, "day is required")
		return
	}
	recs, err := r.perf.CellDetail(c.Request.Context(), c.Query("table"), c.Query("row"), month, year, day)
	if err != nil {
		r.fromError(c, err)
		return
	}
	if recs == nil {
		recs = []model.Record{}
	}
	ok(c, recs)
}

func (r *Router) exportReport(c *gin.Context) {
	if r.perf == nil {
		notConfigured(c, "performance")
		return
	}
	month, year, err := r.period(c)
	if err != nil {
		r.fromError(c, err)
		return
	}
	rep, err := r.perf.BuildMonthReport(c.Request.Context(), month, year)
	if err != nil {
		r.fromError(c, err)
		return
	}
	wb, err := performance.ExportXLSX(rep)
	if err != nil {
		r.fromError(c, err)
		return
	}
	defer wb.Close()

	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=performance-%04d-%02d.xlsx", year, int(month)))
	c.Status(http.StatusOK)
	if err := wb.Write(c.Writer); err != nil {
		r.logger.Error("write xlsx", zap.Error(err))
	}
}

func (r *Router) getTargets(c *gin.Context) {
	if r.perf == nil {
		notConfigured(c, "performance")
		return
	}
	ok(c, r.perf.Targets(c.Request.Context()))
}

type targetsReq struct {
	ByRow map[string]int `json:"byRow"`
}

func (r *Router) putTargets(c *gin.Context) {
	if r.perf == nil {
		notConfigured(c, "performance")
		return
	}
	var req targetsReq
	if err := c.ShouldBindJSON(&req); err != nil || len(req.ByRow) == 0 {
		fail(c, http.StatusBadRequest, "byRow is required")
		return
	}
	if err := r.perf.SetTargets(c.Request.Context(), req.ByRow); err != nil {
		if errors.Is(err, performance.ErrUnknownRow) {
			fail(c, http.StatusBadRequest, err.Error())
			return
		}
		r.fromError(c, err)
		return
	}
	ok(c, r.perf.Targets(c.Request.Context()))
}

func (r *Router) listContacts(c *gin.Context) {
	if r.contacts == nil {
		notConfigured(c, "Google Sheets")
		return
	}
	list, cached, err := r.contacts.List(c.Request.Context(), c.Query("search"))
	if err != nil {
		r.fromError(c, err)
		return
	}
	if cached {
		c.Header("X-Cache-Status", "HIT")
	} else {
		c.Header("X-Cache-Status", "MISS")
	}
	if list == nil {
		list = []model.Contact{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": list, "total": len(list)})
}

func (r *Router) createContact(c *gin.Context) {
	if r.contacts == nil {
		notConfigured(c, "Firestore")
		return
	}
	var req model.Contact
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	saved, err := r.contacts.Create(c.Request.Context(), req)
	if err != nil {
		r.fromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": saved})
}

type remarksReq struct {
	Remarks         string `json:"remarks"`
	NextContactDate string `json:"nextContactDate"`
}

func (r *Router) updateRemarks(c *gin.Context) {
	if r.contacts == nil {
		notConfigured(c, "Firestore")
		return
	}
	var req remarksReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	if err := r.contacts.UpdateRemarks(c.Request.Context(), c.Param("id"), req.Remarks, req.NextContactDate); err != nil {
		r.fromError(c, err)
		return
	}
	ok(c, gin.H{"id": c.Param("id")})
}

type statusReq struct {
	Status string `json:"status"`
}

func (r *Router) updateStatus(c *gin.Context) {
	if r.contacts == nil {
		notConfigured(c, "Firestore")
		return
	}
	var req statusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body")
		return
	}
	if err := r.contacts.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status); err != nil {
		r.fromError(c, err)
		return
	}
	ok(c, gin.H{"id": c.Param("id"), "status": req.Status})
}

func (r *Router) getQueue(c *gin.Context) {
	if r.calls == nil {
		notConfigured(c, "Yalecom")
		return
	}
	snap, err := r.calls.Queue(c.Request.Context())
	if err != nil {
		r.fromError(c, err)
		return
	}
	ok(c, snap)
}

func (r *Router) createCallLog(c *gin.Context) {
	if r.calls == nil {
		notConfigured(c, "Firestore")
		return
	}
	var req model.CallLog
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "invalid body: "+err.Error())
		return
	}
	saved, err := r.calls.RecordCall(c.Request.Context(), req)
	if err != nil {
		r.fromError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"success": true, "data": saved})
}

func (r *Router) getMatrix(c *gin.Context) {
	if r.calls == nil {
		notConfigured(c, "Firestore")
		return
	}
	m, err := r.calls.Matrix(c.Request.Context(), c.Query("date"))
	if err != nil {
		fail(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": m, "hour_slots": callcenter.HourSlots()})
}

func (r *Router) getOutcomes(c *gin.Context) {
	if r.calls == nil {
		notConfigured(c, "Firestore")
		return
	}
	date := c.Query("date")
	if date == "" {
		date = r.now().In(r.loc).Format("2006-01-02")
	}
	counts, unmatched, err := r.calls.Outcomes(c.Request.Context(), date)
	if err != nil {
		r.fromError(c, err)
		return
	}
	ok(c, gin.H{"date": date, "counts": counts, "unmatchedRobocalls": unmatched})
}

func (r *Router) getAdInsights(c *gin.Context) {
	if r.ads == nil {
		notConfigured(c, "Facebook")
		return
	}
	q := facebook.Query{
		Level:      c.DefaultQuery("level", facebook.LevelCampaign),
		DatePreset: c.DefaultQuery("date_preset", "today"),
		Since:      c.Query("since"),
		Until:      c.Query("until"),
	}
	rep, err := r.ads.Report(c.Request.Context(), q)
	if err != nil {
		r.fromError(c, err)
		return
	}
	ok(c, rep)
}

func (r *Router) getStock(c *gin.Context) {
	if r.stock == nil {
		notConfigured(c, "SET API")
		return
	}
	quotes, err := r.stock.Quotes(c.Request.Context(), c.Query("symbol"))
	if err != nil {
		r.fromError(c, err)
		return
	}
	ok(c, quotes)
}
