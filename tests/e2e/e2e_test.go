//go:build e2e

package e2e

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	baseURL = getEnv("WEBPROMEDID_API_URL", "http://127.0.0.1:8080")
	apiBase = baseURL + "/api/v1"
	// platformHost must be one of the server's PLATFORM_HOSTS
	platformHost = getEnv("WEBPROMEDID_PLATFORM_HOST", "localhost")
)

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

type TestClient struct {
	httpClient *http.Client
	host       string
}

func NewTestClient(host string) *TestClient {
	return &TestClient{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		host:       host,
	}
}

func (c *TestClient) Do(method, path string, body any) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		bodyReader = bytes.NewBuffer(jsonBody)
	}

	req, _ := http.NewRequest(method, path, bodyReader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-CSRF-Token", "e2e")
	if c.host != "" {
		req.Host = c.host
	}

	return c.httpClient.Do(req)
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()
	defer resp.Body.Close()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(v))
}

func TestE2E_Workflows(t *testing.T) {
	// State shared between subtests
	var (
		e2eTenantID string
		e2eSlug     = fmt.Sprintf("e2e-%d", time.Now().Unix())
		e2eToken    string
	)

	// 1. Operator Flow
	t.Run("Operator Flow", func(t *testing.T) {
		client := NewTestClient("")

		resp, err := client.Do("POST", apiBase+"/admin/tenants", map[string]string{
			"name":  "E2E Clinic",
			"slug":  e2eSlug,
			"theme": "medical",
		})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var created struct {
			ID   string `json:"id"`
			Slug string `json:"slug"`
		}
		decode(t, resp, &created)
		assert.Equal(t, e2eSlug, created.Slug)
		e2eTenantID = created.ID

		resp, err = client.Do("PATCH", apiBase+"/admin/tenants/"+e2eTenantID+"/pages/home/fields", map[string]any{
			"path":  "hero.title",
			"value": "Bienvenidos",
		})
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp, err = client.Do("POST", apiBase+"/admin/tenants/"+e2eTenantID+"/pages/home/sections/pricing/disable", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp, err = client.Do("POST", apiBase+"/admin/tenants/"+e2eTenantID+"/preview-tokens", map[string]string{"page": "home"})
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)
		var issued struct {
			Token string `json:"token"`
		}
		decode(t, resp, &issued)
		e2eToken = issued.Token
	})

	// 2. Visitor Flow
	t.Run("Visitor Flow", func(t *testing.T) {
		require.NotEmpty(t, e2eTenantID)
		client := NewTestClient(e2eSlug + "." + platformHost)

		resp, err := client.Do("GET", apiBase+"/site", nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var site struct {
			PlatformMode bool `json:"platform_mode"`
			Document     struct {
				Hero struct {
					Title string `json:"title"`
				} `json:"hero"`
			} `json:"document"`
			Plan struct {
				Desktop []string `json:"desktop"`
			} `json:"plan"`
		}
		decode(t, resp, &site)
		assert.False(t, site.PlatformMode)
		assert.Equal(t, "Bienvenidos", site.Document.Hero.Title)
		assert.NotContains(t, site.Plan.Desktop, "pricing")

		resp, err = NewTestClient("missing-"+e2eSlug+"."+platformHost).Do("GET", apiBase+"/site", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		resp.Body.Close()
	})

	// 3. Preview Flow
	t.Run("Preview Flow", func(t *testing.T) {
		require.NotEmpty(t, e2eToken)
		client := NewTestClient("")

		resp, err := client.Do("PUT", apiBase+"/admin/tenants/"+e2eTenantID+"/status", map[string]string{"status": "inactive"})
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		resp.Body.Close()

		resp, err = client.Do("GET", apiBase+"/preview?token="+e2eToken, nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		var preview struct {
			Tenant struct {
				TenantID string `json:"tenant_id"`
				Preview  bool   `json:"preview"`
			} `json:"tenant"`
		}
		decode(t, resp, &preview)
		assert.Equal(t, e2eTenantID, preview.Tenant.TenantID)
		assert.True(t, preview.Tenant.Preview)

		resp, err = NewTestClient(e2eSlug+"."+platformHost).Do("GET", apiBase+"/site", nil)
		require.NoError(t, err)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "inactive tenants are not served publicly")
		resp.Body.Close()
	})
}
