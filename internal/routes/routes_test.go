package routes_test

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/01moynul/taptosell-catalog/internal/admin"
	"github.com/01moynul/taptosell-catalog/internal/auth"
	"github.com/01moynul/taptosell-catalog/internal/catalog"
	"github.com/01moynul/taptosell-catalog/internal/database/dbtest"
	"github.com/01moynul/taptosell-catalog/internal/handlers"
	"github.com/01moynul/taptosell-catalog/internal/metrics"
	"github.com/01moynul/taptosell-catalog/internal/routes"
	"github.com/01moynul/taptosell-catalog/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type env struct {
	router    *gin.Engine
	issuer    *auth.Issuer
	uploadDir string
}

func newEnv(c *qt.C) *env {
	issuer, err := auth.NewIssuer("test-secret", time.Hour)
	c.Assert(err, qt.IsNil)

	reg := prometheus.NewRegistry()
	m := metrics.New("catalog_test", reg)
	h := &handlers.Handlers{
		Catalog:  catalog.New(store.New(dbtest.New(c)), catalog.WithRecorder(m)),
		Resource: admin.ProductResource("/v1/admin"),
	}
	dir := c.TempDir()
	r := routes.SetupRouter(h, routes.Deps{
		Logger:     zap.NewNop(),
		Issuer:     issuer,
		Metrics:    m,
		Gatherer:   reg,
		UploadDir:  dir,
		CORSOrigin: "http://admin.test",
	})
	return &env{router: r, issuer: issuer, uploadDir: dir}
}

func (e *env) get(c *qt.C, path string, role auth.Role) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if role != "" {
		token, err := e.issuer.GenerateToken("tester", role)
		c.Assert(err, qt.IsNil)
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func TestPublicRoutes(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)

	for _, path := range []string{"/ping", "/v1/ping"} {
		w := e.get(c, path, "")
		c.Assert(w.Code, qt.Equals, http.StatusOK)
		c.Assert(w.Body.String(), qt.Equals, `{"message":"pong!"}`)
		c.Assert(w.Header().Get("X-Request-ID"), qt.Not(qt.Equals), "")
	}
}

func TestAdminRoutesNeedAdminRole(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)

	c.Assert(e.get(c, "/v1/admin/departments", "").Code, qt.Equals, http.StatusUnauthorized)
	c.Assert(e.get(c, "/v1/admin/departments", auth.RoleVendor).Code, qt.Equals, http.StatusForbidden)
	c.Assert(e.get(c, "/v1/admin/departments", auth.RoleAdmin).Code, qt.Equals, http.StatusOK)
	c.Assert(e.get(c, "/v1/admin/resources/products", auth.RoleAdmin).Code, qt.Equals, http.StatusOK)
}

func TestMetricsEndpoint(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)

	e.get(c, "/v1/admin/departments", auth.RoleAdmin)
	e.get(c, "/v1/admin/departments", "")

	w := e.get(c, "/metrics", "")
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	body := w.Body.String()
	c.Assert(strings.Contains(body, `catalog_test_http_requests_total{method="GET",path="/v1/admin/departments",status="200"} 1`), qt.IsTrue, qt.Commentf("%s", body))
	c.Assert(strings.Contains(body, "catalog_test_auth_failures_total 1"), qt.IsTrue)
}

func TestCORSPreflight(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)

	req := httptest.NewRequest(http.MethodOptions, "/v1/admin/products", nil)
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	c.Assert(w.Code, qt.Equals, http.StatusNoContent)
	c.Assert(w.Header().Get("Access-Control-Allow-Origin"), qt.Equals, "http://admin.test")
}

func TestServesUploads(t *testing.T) {
	c := qt.New(t)
	e := newEnv(c)

	c.Assert(os.MkdirAll(filepath.Join(e.uploadDir, "abc"), 0o755), qt.IsNil)
	c.Assert(os.WriteFile(filepath.Join(e.uploadDir, "abc", "front.png"), []byte("png"), 0o644), qt.IsNil)

	w := e.get(c, "/uploads/abc/front.png", "")
	c.Assert(w.Code, qt.Equals, http.StatusOK)
	c.Assert(w.Body.String(), qt.Equals, "png")
}
