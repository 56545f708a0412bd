package api

import (
	"errors"
	"testing"
	"time"

	"expensehub/middleware"
	"expensehub/models"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestAuthHandler_Register(t *testing.T) {
	cfg := initTestConfig(t)
	db := setupSQLiteDB(t)

	router := gin.New()
	h := NewAuthHandler(cfg)
	router.POST("/register", h.Register)

	w := doRequest(router, "POST", "/register", `{"email":"ana@example.com","password":"password123","name":"Ana"}`)
	assert.Equal(t, 201, w.Code)

	var user models.User
	resp := decodeData(t, w, &user)
	assert.Equal(t, 201, resp.Code)
	assert.Equal(t, "ana@example.com", user.Email)
	assert.NotEmpty(t, user.ID)
	assert.Empty(t, user.Password)
	assert.NotContains(t, w.Body.String(), "password")

	var stored models.User
	require.NoError(t, db.Where("email = ?", "ana@example.com").First(&stored).Error)
	assert.NotEqual(t, "password123", stored.Password)
}

func TestAuthHandler_Register_InvalidBody(t *testing.T) {
	cfg := initTestConfig(t)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg).Register)

	cases := []string{
		`{"email":"not-an-email","password":"password123"}`,
		`{"email":"ana@example.com","password":"123"}`,
		`{"password":"password123"}`,
		`not json`,
	}
	for _, body := range cases {
		w := doRequest(router, "POST", "/register", body)
		assert.Equal(t, 400, w.Code, body)
	}
	// 参数校验失败不应触达数据库
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Register_EmailExists(t *testing.T) {
	cfg := initTestConfig(t)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT count\\(\\*\\) FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	router := gin.New()
	router.POST("/register", NewAuthHandler(cfg).Register)

	w := doRequest(router, "POST", "/register", `{"email":"ana@example.com","password":"password123"}`)
	assert.Equal(t, 400, w.Code)
	resp := decodeData(t, w, nil)
	assert.Equal(t, "邮箱已被注册", resp.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login(t *testing.T) {
	cfg := initTestConfig(t)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	digest, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "created_at"}).
			AddRow("u-1", "ana@example.com", string(digest), nil, time.Now()))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	w := doRequest(router, "POST", "/login", `{"email":"ana@example.com","password":"password123"}`)
	assert.Equal(t, 200, w.Code)

	var token TokenResponse
	decodeData(t, w, &token)
	assert.Equal(t, "bearer", token.TokenType)

	claims, err := middleware.ParseToken(token.Token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", claims.UserID)
	assert.Equal(t, "ana@example.com", claims.Subject)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_WrongPassword(t *testing.T) {
	cfg := initTestConfig(t)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	digest, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "created_at"}).
			AddRow("u-1", "ana@example.com", string(digest), nil, time.Now()))
	// 不存在的邮箱与密码错误返回相同信息
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "password", "name", "created_at"}))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	w := doRequest(router, "POST", "/login", `{"email":"ana@example.com","password":"wrong-pass"}`)
	assert.Equal(t, 401, w.Code)
	first := decodeData(t, w, nil)

	w = doRequest(router, "POST", "/login", `{"email":"nobody@example.com","password":"password123"}`)
	assert.Equal(t, 401, w.Code)
	second := decodeData(t, w, nil)

	assert.Equal(t, "邮箱或密码错误", first.Message)
	assert.Equal(t, first.Message, second.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Login_DatabaseError(t *testing.T) {
	cfg := initTestConfig(t)
	mock, cleanup := setupMockDB(t)
	defer cleanup()

	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnError(errors.New("connection reset"))

	router := gin.New()
	router.POST("/login", NewAuthHandler(cfg).Login)

	w := doRequest(router, "POST", "/login", `{"email":"ana@example.com","password":"password123"}`)
	assert.Equal(t, 500, w.Code)
	// debug 模式下返回原始错误
	assert.Contains(t, w.Body.String(), "connection reset")

	cfg.Server.Mode = "release"
	mock.ExpectQuery("SELECT .* FROM `users`").
		WillReturnError(errors.New("connection reset"))
	w = doRequest(router, "POST", "/login", `{"email":"ana@example.com","password":"password123"}`)
	assert.Equal(t, 500, w.Code)
	resp := decodeData(t, w, nil)
	assert.Equal(t, "登录失败", resp.Message)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthHandler_Me(t *testing.T) {
	cfg := initTestConfig(t)
	db := setupSQLiteDB(t)
	ana := seedUser(t, db, "ana@example.com")

	h := NewAuthHandler(cfg)

	router := gin.New()
	router.GET("/me", asUser(ana), h.Me)
	w := doRequest(router, "GET", "/me", "")
	assert.Equal(t, 200, w.Code)
	var user models.User
	decodeData(t, w, &user)
	assert.Equal(t, ana.ID, user.ID)

	anonymous := gin.New()
	anonymous.GET("/me", h.Me)
	w = doRequest(anonymous, "GET", "/me", "")
	assert.Equal(t, 401, w.Code)
}

func TestUserHandler_List(t *testing.T) {
	initTestConfig(t)
	db := setupSQLiteDB(t)
	ana := seedUser(t, db, "ana@example.com")
	seedUser(t, db, "bob@example.com")

	router := gin.New()
	router.GET("/users", asUser(ana), NewUserHandler().List)

	w := doRequest(router, "GET", "/users", "")
	assert.Equal(t, 200, w.Code)
	var users []models.User
	decodeData(t, w, &users)
	assert.Len(t, users, 2)
}
