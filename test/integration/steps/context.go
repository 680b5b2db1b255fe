// Package steps provides step definitions for BDD integration tests.
package steps

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/cucumber/godog"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"github.com/expense-tracker/backend/config"
	"github.com/expense-tracker/backend/internal/infra/dependency"
	"github.com/expense-tracker/backend/internal/integration/persistence/model"
	"github.com/expense-tracker/backend/test/integration/mock"
)

const testJWTSecret = "test-jwt-secret-key-for-testing-purposes"

var serverOnce sync.Once
var testServer *httptest.Server
var testDB *mock.Db

// testContext holds per-scenario state.
type testContext struct {
	client  *http.Client
	headers map[string]string

	response *response

	accessToken  string
	refreshToken string

	currentUserID     int64
	currentCategoryID int64
	lastExpenseID     int64
}

type response struct {
	status int
	body   any
	raw    []byte
}

// InitializeTestSuite sets up shared resources before any scenarios run.
func InitializeTestSuite(ctx *godog.TestSuiteContext) {
	ctx.BeforeSuite(func() {
		gin.SetMode(gin.TestMode)
	})

	ctx.AfterSuite(func() {
		if testServer != nil {
			testServer.Close()
		}
	})
}

func startServer() {
	serverOnce.Do(func() {
		_ = os.Setenv("ENV", "test")

		testDB = mock.NewDb(map[string]any{
			"users":          &model.UserModel{},
			"refresh_tokens": &model.RefreshTokenModel{},
			"categories":     &model.CategoryModel{},
			"expenses":       &model.ExpenseModel{},
		})

		cfg := config.Load()
		cfg.JWT.Secret = testJWTSecret

		injector := dependency.NewInjector(cfg, testDB.DbConn, mock.NewRedis())
		engine := injector.Router.Setup("test")

		testServer = httptest.NewServer(engine)
	})
}

// InitializeScenario registers all step definitions.
func InitializeScenario(ctx *godog.ScenarioContext) {
	test := &testContext{
		client: &http.Client{Timeout: 10 * time.Second},
	}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		startServer()
		test.reset()
		if err := testDB.Reset(); err != nil {
			return ctx, err
		}
		return ctx, mock.ClearRedis(mock.NewRedis())
	})

	// Background steps
	ctx.Given(`^the API server is running$`, test.theAPIServerIsRunning)

	// Setup steps
	ctx.Given(`^a user exists with username "([^"]*)" and password "([^"]*)"$`, test.aUserExistsWithUsernameAndPassword)
	ctx.Given(`^I am logged in as "([^"]*)" with password "([^"]*)"$`, test.iAmLoggedInAsWithPassword)
	ctx.Given(`^a category exists with name "([^"]*)"$`, test.aCategoryExistsWithName)
	ctx.Given(`^an expense exists with amount "([^"]*)" and description "([^"]*)" on "([^"]*)"$`, test.anExpenseExists)

	// Header steps
	ctx.Given(`^the header is empty$`, test.theHeaderIsEmpty)
	ctx.Given(`^the header contains the key "([^"]*)" with "([^"]*)"$`, test.theHeaderContainsTheKeyWith)

	// Request steps
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)"$`, test.iSendARequestTo)
	ctx.When(`^I send a "([^"]*)" request to "([^"]*)" with body:$`, test.iSendARequestToWithBody)

	// Response assertion steps
	ctx.Then(`^the response status should be (\d+)$`, test.theResponseStatusShouldBe)
	ctx.Then(`^the response should be JSON$`, test.theResponseShouldBeJSON)
	ctx.Then(`^the response should contain "([^"]*)"$`, test.theResponseShouldContain)
	ctx.Then(`^the response field "([^"]*)" should be "([^"]*)"$`, test.theResponseFieldShouldBe)
	ctx.Then(`^the response field "([^"]*)" should exist$`, test.theResponseFieldShouldExist)

	// Database assertion steps
	ctx.Then(`^the db should contain (\d+) objects in the "([^"]*)" table$`, test.theDbShouldContainObjectsInTheTable)
	ctx.Then(`^the db should contain (\d+) objects in "([^"]*)" with the values$`, test.theDbShouldContainObjectsInWithTheValues)
}

func (t *testContext) reset() {
	t.headers = make(map[string]string)
	t.response = nil
	t.accessToken = ""
	t.refreshToken = ""
	t.currentUserID = 0
	t.currentCategoryID = 0
	t.lastExpenseID = 0
}

func (t *testContext) theAPIServerIsRunning() error {
	if testServer == nil {
		return errors.New("test server is not running")
	}
	return nil
}

func (t *testContext) aUserExistsWithUsernameAndPassword(username, password string) error {
	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.UserModel{
		Username:     username,
		Email:        username + "@example.com",
		PasswordHash: string(hashedBytes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := testDB.DbConn.Create(user).Error; err != nil {
		return err
	}
	t.currentUserID = user.ID
	return nil
}

// iAmLoggedInAsWithPassword logs in through the real endpoint so the
// captured tokens match what a client would hold.
func (t *testContext) iAmLoggedInAsWithPassword(username, password string) error {
	var userModel model.UserModel
	if err := testDB.DbConn.Where("username = ?", username).First(&userModel).Error; err != nil {
		if createErr := t.aUserExistsWithUsernameAndPassword(username, password); createErr != nil {
			return createErr
		}
	} else {
		t.currentUserID = userModel.ID
	}

	body := fmt.Sprintf(`{"username": %q, "password": %q}`, username, password)
	if err := t.executeRequest(http.MethodPost, "/api/v1/auth/login", []byte(body)); err != nil {
		return err
	}
	if t.response.status != http.StatusOK {
		return fmt.Errorf("login failed with status %d: %v", t.response.status, t.response.body)
	}

	responseBody, ok := t.response.body.(map[string]any)
	if !ok {
		return errors.New("login response is not a JSON object")
	}
	t.accessToken, _ = responseBody["access_token"].(string)
	t.refreshToken, _ = responseBody["refresh_token"].(string)
	if t.accessToken == "" {
		return errors.New("login response did not contain an access token")
	}
	return nil
}

func (t *testContext) aCategoryExistsWithName(name string) error {
	category := &model.CategoryModel{
		UserID:    t.currentUserID,
		Name:      name,
		Icon:      "🛒",
		Color:     "#3B82F6",
		CreatedAt: time.Now().UTC(),
	}
	if err := testDB.DbConn.Create(category).Error; err != nil {
		return err
	}
	t.currentCategoryID = category.ID
	return nil
}

func (t *testContext) anExpenseExists(amount, description, date string) error {
	if t.currentCategoryID == 0 {
		if err := t.aCategoryExistsWithName("Food"); err != nil {
			return err
		}
	}

	parsedAmount, err := decimal.NewFromString(amount)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	parsedDate, err := time.Parse("2006-01-02", date)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", date, err)
	}

	now := time.Now().UTC()
	expense := &model.ExpenseModel{
		UserID:      t.currentUserID,
		CategoryID:  t.currentCategoryID,
		Amount:      parsedAmount,
		Description: description,
		ExpenseDate: parsedDate,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := testDB.DbConn.Create(expense).Error; err != nil {
		return err
	}
	t.lastExpenseID = expense.ID
	return nil
}

func (t *testContext) theHeaderIsEmpty() error {
	t.headers = make(map[string]string)
	t.accessToken = "" // Clear the token to simulate an unauthenticated request
	return nil
}

func (t *testContext) theHeaderContainsTheKeyWith(key, value string) error {
	t.headers[key] = value
	return nil
}

func (t *testContext) iSendARequestTo(method, path string) error {
	return t.executeRequest(method, t.replacePlaceholders(path), nil)
}

func (t *testContext) iSendARequestToWithBody(method, path string, body *godog.DocString) error {
	var payload []byte
	if body != nil && body.Content != "" {
		payload = []byte(t.replacePlaceholders(body.Content))
	}
	return t.executeRequest(method, t.replacePlaceholders(path), payload)
}

func (t *testContext) replacePlaceholders(content string) string {
	content = strings.ReplaceAll(content, "{{access_token}}", t.accessToken)
	content = strings.ReplaceAll(content, "{{refresh_token}}", t.refreshToken)
	content = strings.ReplaceAll(content, "{{category_id}}", strconv.FormatInt(t.currentCategoryID, 10))
	content = strings.ReplaceAll(content, "{{expense_id}}", strconv.FormatInt(t.lastExpenseID, 10))
	return content
}

func (t *testContext) executeRequest(method, path string, payload []byte) error {
	url := testServer.URL + path

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	if t.accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.accessToken)
	}
	for key, value := range t.headers {
		req.Header.Set(key, value)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	t.response = &response{
		status: resp.StatusCode,
		raw:    bodyBytes,
	}

	var responseBody map[string]any
	if err := json.Unmarshal(bodyBytes, &responseBody); err != nil {
		t.response.body = string(bodyBytes)
		return nil
	}
	t.response.body = responseBody

	// Capture identifiers from create responses for later placeholders
	if id, ok := responseBody["id"].(float64); ok {
		if _, isExpense := responseBody["amount"]; isExpense {
			t.lastExpenseID = int64(id)
		} else if _, isCategory := responseBody["color"]; isCategory {
			t.currentCategoryID = int64(id)
		}
	}
	if token, ok := responseBody["access_token"].(string); ok && token != "" {
		t.accessToken = token
	}
	if token, ok := responseBody["refresh_token"].(string); ok && token != "" {
		t.refreshToken = token
	}

	return nil
}

func (t *testContext) theResponseStatusShouldBe(expectedStatus int) error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if t.response.status != expectedStatus {
		return fmt.Errorf("expected status %d, got %d (body: %v)", expectedStatus, t.response.status, t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldBeJSON() error {
	if t.response == nil {
		return errors.New("no response received")
	}
	if _, ok := t.response.body.(map[string]any); !ok {
		return fmt.Errorf("response is not JSON: %v", t.response.body)
	}
	return nil
}

func (t *testContext) theResponseShouldContain(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	body, ok := t.response.body.(map[string]any)
	if !ok {
		return fmt.Errorf("response is not a JSON object: %v", t.response.body)
	}
	if _, exists := body[field]; !exists {
		return fmt.Errorf("response does not contain field '%s': %v", field, body)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldBe(field, expectedValue string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	value := getFieldValue(t.response.body, field)
	if value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}

	actualValue := fmt.Sprintf("%v", value)
	if actualValue != expectedValue {
		return fmt.Errorf("field '%s' expected '%s', got '%s'", field, expectedValue, actualValue)
	}
	return nil
}

func (t *testContext) theResponseFieldShouldExist(field string) error {
	if t.response == nil {
		return errors.New("no response received")
	}

	if value := getFieldValue(t.response.body, field); value == nil {
		return fmt.Errorf("field '%s' not found in response: %v", field, t.response.body)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInTheTable(quantity int, table string) error {
	tableModel, ok := testDB.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	var count int64
	if err := testDB.DbConn.Model(tableModel).Count(&count).Error; err != nil {
		return err
	}
	if count != int64(quantity) {
		return fmt.Errorf("expected %d objects in '%s', got %d", quantity, table, count)
	}
	return nil
}

func (t *testContext) theDbShouldContainObjectsInWithTheValues(quantity int, table string, content *godog.DocString) error {
	tableModel, ok := testDB.GetModel(table)
	if !ok {
		return fmt.Errorf("table '%s' not found in models", table)
	}

	var criteria map[string]any
	if err := json.Unmarshal([]byte(t.replacePlaceholders(content.Content)), &criteria); err != nil {
		return err
	}

	query := testDB.DbConn.Model(tableModel)
	for key, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", key), value)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return err
	}
	if count != int64(quantity) {
		return fmt.Errorf("expected %d objects in '%s' with criteria %v, got %d", quantity, table, criteria, count)
	}
	return nil
}

func getFieldValue(object any, dotSeparatedField string) any {
	if object == nil {
		return nil
	}

	objectMap, ok := object.(map[string]any)
	if !ok {
		return nil
	}

	fields := strings.Split(dotSeparatedField, ".")
	var field any = objectMap

	for _, currentField := range fields {
		if field == nil {
			return nil
		}

		if i, err := strconv.Atoi(currentField); err == nil {
			arr, ok := field.([]any)
			if !ok || i >= len(arr) {
				return nil
			}
			field = arr[i]
			continue
		}

		m, ok := field.(map[string]any)
		if !ok {
			return nil
		}
		field = m[currentField]
	}

	return field
}
