package integration

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/royxue/cocomo-waitlist/config"
	"github.com/royxue/cocomo-waitlist/config/router"
	"github.com/royxue/cocomo-waitlist/domain"
	"github.com/royxue/cocomo-waitlist/internal/log"
	"github.com/royxue/cocomo-waitlist/internal/models"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type WaitlistAPITestSuite struct {
	suite.Suite
	db        *gorm.DB
	server    *httptest.Server
	baseURL   string
	logger    *log.Logger
	appConfig *config.ApplicationConfig
}

func (suite *WaitlistAPITestSuite) SetupSuite() {
	var err error
	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(&models.WaitlistEntry{})
	suite.Require().NoError(err)

	suite.logger = log.NewLoggerWithJSONOutput()

	suite.appConfig = &config.ApplicationConfig{
		DB:     suite.db,
		Logger: suite.logger,
	}

	suite.appConfig.RouterService = router.CreateRouterService(suite.logger, nil, &router.RouterConfig{
		RateLimitRequests: 1000,
		RateLimitWindow:   time.Minute,
		RequestTimeout:    30 * time.Second,
	})

	domain.SetupCoreDomain(suite.appConfig)

	suite.server = httptest.NewServer(suite.appConfig.RouterService.GetEngine())
	suite.baseURL = suite.server.URL
}

func (suite *WaitlistAPITestSuite) TearDownSuite() {
	if suite.server != nil {
		suite.server.Close()
	}
	if suite.db != nil {
		sqlDB, _ := suite.db.DB()
		sqlDB.Close()
	}
}

func (suite *WaitlistAPITestSuite) SetupTest() {
	suite.db.Exec("DELETE FROM waitlist_entries")
}

func (suite *WaitlistAPITestSuite) postSignup(body map[string]string) (*http.Response, map[string]interface{}) {
	jsonBody, _ := json.Marshal(body)

	resp, err := http.Post(suite.baseURL+"/v1/waitlist", "application/json", bytes.NewBuffer(jsonBody))
	suite.Require().NoError(err)
	defer resp.Body.Close()

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	return resp, response
}

func (suite *WaitlistAPITestSuite) entryCount() int64 {
	var count int64
	err := suite.db.Model(&models.WaitlistEntry{}).Count(&count).Error
	suite.Require().NoError(err)
	return count
}

func (suite *WaitlistAPITestSuite) TestHealthCheck() {
	resp, err := http.Get(suite.baseURL + "/health")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	suite.Equal(float64(200), response["code"])
	suite.Contains(response["message"], "health check completed")

	data := response["data"].(map[string]interface{})
	suite.Contains(data, "database")
	suite.Contains(data, "uptime")

	suite.Equal(float64(1), data["database"])
}

func (suite *WaitlistAPITestSuite) TestSignup() {
	resp, response := suite.postSignup(map[string]string{"email": "john.doe@example.com"})

	suite.Equal(http.StatusCreated, resp.StatusCode)
	suite.Equal(float64(201), response["code"])
	suite.Equal("登録が完了しました！", response["message"])

	data := response["data"].(map[string]interface{})
	suite.Equal("john.doe@example.com", data["email"])
	suite.Equal("regular", data["type"])
	suite.Equal("landing_page", data["source"])
	suite.Contains(data, "id")
	suite.Contains(data, "created_at")

	suite.Equal(int64(1), suite.entryCount())
}

func (suite *WaitlistAPITestSuite) TestSignupLowercasesEmail() {
	resp, _ := suite.postSignup(map[string]string{"email": "A@Example.com"})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	var entry models.WaitlistEntry
	err := suite.db.First(&entry).Error
	suite.Require().NoError(err)
	suite.Equal("a@example.com", entry.Email)
}

func (suite *WaitlistAPITestSuite) TestSignupWithoutAtSign() {
	resp, response := suite.postSignup(map[string]string{"email": "not-an-email"})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal("有効なメールアドレスを入力してください", response["message"])
	suite.Equal(int64(0), suite.entryCount())
}

func (suite *WaitlistAPITestSuite) TestSignupMissingEmail() {
	resp, _ := suite.postSignup(map[string]string{})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal(int64(0), suite.entryCount())
}

func (suite *WaitlistAPITestSuite) TestSignupInvalidType() {
	resp, response := suite.postSignup(map[string]string{"email": "x@y.com", "type": "investor"})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal("invalid type", response["message"])
	suite.Equal(int64(0), suite.entryCount())
}

func (suite *WaitlistAPITestSuite) TestSignupChecksEmailBeforeType() {
	// Email validation runs first, so a request that is wrong on both
	// counts reports the email error.
	resp, response := suite.postSignup(map[string]string{"type": "investor"})

	suite.Equal(http.StatusBadRequest, resp.StatusCode)
	suite.Equal("有効なメールアドレスを入力してください", response["message"])
	suite.Equal(int64(0), suite.entryCount())
}

func (suite *WaitlistAPITestSuite) TestDuplicateSignup() {
	resp, _ := suite.postSignup(map[string]string{"email": "a@example.com"})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	// Case variant of the same email collides with the stored entry.
	resp, response := suite.postSignup(map[string]string{"email": "A@Example.com"})
	suite.Equal(http.StatusConflict, resp.StatusCode)
	suite.Equal("このメールアドレスは既に登録されています", response["message"])

	suite.Equal(int64(1), suite.entryCount())
}

func (suite *WaitlistAPITestSuite) TestSameEmailDifferentTypes() {
	resp, response := suite.postSignup(map[string]string{"email": "x@y.com", "type": "angel"})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	data := response["data"].(map[string]interface{})
	suite.Equal("angel_page", data["source"])

	// The type defaults to regular, so the same email lands on the other list.
	resp, response = suite.postSignup(map[string]string{"email": "x@y.com"})
	suite.Equal(http.StatusCreated, resp.StatusCode)

	data = response["data"].(map[string]interface{})
	suite.Equal("landing_page", data["source"])

	suite.Equal(int64(2), suite.entryCount())
}

func (suite *WaitlistAPITestSuite) TestListEntries() {
	now := time.Now().UTC()
	seed := []models.WaitlistEntry{
		{ID: "entry-1", Email: "old@example.com", SignupType: "regular", Source: "landing_page", CreatedAt: now.Add(-2 * time.Hour)},
		{ID: "entry-2", Email: "mid@example.com", SignupType: "angel", Source: "angel_page", CreatedAt: now.Add(-time.Hour)},
		{ID: "entry-3", Email: "new@example.com", SignupType: "regular", Source: "landing_page", CreatedAt: now},
	}

	for i := range seed {
		suite.Require().NoError(suite.db.Create(&seed[i]).Error)
	}

	resp, err := http.Get(suite.baseURL + "/v1/waitlist")
	suite.Require().NoError(err)
	defer resp.Body.Close()

	suite.Equal(http.StatusOK, resp.StatusCode)

	var response map[string]interface{}
	err = json.NewDecoder(resp.Body).Decode(&response)
	suite.Require().NoError(err)

	payload := response["data"].(map[string]interface{})
	suite.Equal(float64(3), payload["count"])

	data := payload["data"].([]interface{})
	suite.Len(data, 3)
	suite.Equal(float64(len(data)), payload["count"])

	// Newest first.
	first := data[0].(map[string]interface{})
	suite.Equal("new@example.com", first["email"])
	last := data[2].(map[string]interface{})
	suite.Equal("old@example.com", last["email"])

	// The projection is exactly {id, email, created_at, source}.
	suite.Len(first, 4)
	suite.Contains(first, "id")
	suite.Contains(first, "email")
	suite.Contains(first, "created_at")
	suite.Contains(first, "source")
}

func (suite *WaitlistAPITestSuite) TestListIsSideEffectFree() {
	suite.postSignup(map[string]string{"email": "a@example.com"})

	for i := 0; i < 3; i++ {
		resp, err := http.Get(suite.baseURL + "/v1/waitlist")
		suite.Require().NoError(err)
		resp.Body.Close()
		suite.Equal(http.StatusOK, resp.StatusCode)
	}

	suite.Equal(int64(1), suite.entryCount())
}

func TestWaitlistAPITestSuite(t *testing.T) {
	suite.Run(t, new(WaitlistAPITestSuite))
}
