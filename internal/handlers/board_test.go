package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ezubkova/todolist-api/internal/constants"
	"github.com/ezubkova/todolist-api/internal/database"
	"github.com/ezubkova/todolist-api/internal/middleware"
	"github.com/ezubkova/todolist-api/internal/models"
	"github.com/ezubkova/todolist-api/internal/repository"
	"github.com/ezubkova/todolist-api/internal/services"
)

// testUserHeader carries the acting user's id in suite requests, standing in
// for the session middleware.
const testUserHeader = "X-Test-User"

func testAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		idStr := c.GetHeader(testUserHeader)
		if idStr != "" {
			id, err := strconv.ParseUint(idStr, 10, 64)
			if err == nil {
				c.Set(constants.ContextKeyUserID, id)
			}
		}
		c.Next()
	}
}

// BoardHandlerTestSuite exercises the board routes through the real access
// middleware chain.
type BoardHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *BoardHandlerTestSuite) SetupTest() {
	var err error

	suite.db, err = gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	suite.Require().NoError(err)

	err = suite.db.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.BoardParticipant{},
		&models.GoalCategory{},
		&models.Goal{},
		&models.GoalComment{},
	)
	suite.Require().NoError(err)

	database.SetDB(suite.db)

	userRepo := repository.NewUserRepository(suite.db)
	boardRepo := repository.NewBoardRepository(suite.db)
	boardService := services.NewBoardService(boardRepo, userRepo)
	handler := NewBoardHandler(boardService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(testAuth())
	suite.router.POST("/goals/board/create", handler.CreateBoard)
	suite.router.GET("/goals/board/list", handler.ListBoards)
	suite.router.GET("/goals/board/:id", middleware.RequireBoardAccess(), handler.GetBoard)
	suite.router.PUT("/goals/board/:id", middleware.RequireBoardAccess(), handler.UpdateBoard)
	suite.router.DELETE("/goals/board/:id", middleware.RequireBoardAccess(), handler.DeleteBoard)
}

func (suite *BoardHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *BoardHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *BoardHandlerTestSuite) createTestBoard(title string, ownerID uint64) *models.Board {
	board := &models.Board{Title: title}
	suite.db.Create(board)
	suite.db.Create(&models.BoardParticipant{
		BoardID: board.ID,
		UserID:  ownerID,
		Role:    models.RoleOwner,
	})
	return board
}

func (suite *BoardHandlerTestSuite) addParticipant(boardID, userID uint64, role models.BoardRole) {
	suite.db.Create(&models.BoardParticipant{
		BoardID: boardID,
		UserID:  userID,
		Role:    role,
	})
}

func (suite *BoardHandlerTestSuite) request(method, url string, payload any, userID uint64) *httptest.ResponseRecorder {
	var body []byte
	if payload != nil {
		var err error
		body, err = json.Marshal(payload)
		suite.Require().NoError(err)
	}

	req := httptest.NewRequest(method, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(testUserHeader, strconv.FormatUint(userID, 10))

	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *BoardHandlerTestSuite) TestCreateBoard() {
	user := suite.createTestUser("owner")

	w := suite.request("POST", "/goals/board/create", map[string]string{"title": "My Board"}, user.ID)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var participant models.BoardParticipant
	err := suite.db.Where("user_id = ?", user.ID).First(&participant).Error
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), models.RoleOwner, participant.Role)
}

func (suite *BoardHandlerTestSuite) TestListBoards_OnlyParticipating() {
	user := suite.createTestUser("owner")
	other := suite.createTestUser("other")
	suite.createTestBoard("Mine", user.ID)
	suite.createTestBoard("Theirs", other.ID)

	w := suite.request("GET", "/goals/board/list", nil, user.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string][]models.Board
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response["boards"], 1)
	assert.Equal(suite.T(), "Mine", response["boards"][0].Title)
}

func (suite *BoardHandlerTestSuite) TestGetBoard_NonParticipant() {
	owner := suite.createTestUser("owner")
	outsider := suite.createTestUser("outsider")
	board := suite.createTestBoard("Private", owner.ID)

	// Existence is hidden from non-participants.
	w := suite.request("GET", fmt.Sprintf("/goals/board/%d", board.ID), nil, outsider.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *BoardHandlerTestSuite) TestGetBoard_Participant() {
	owner := suite.createTestUser("owner")
	reader := suite.createTestUser("reader")
	board := suite.createTestBoard("Shared", owner.ID)
	suite.addParticipant(board.ID, reader.ID, models.RoleReader)

	w := suite.request("GET", fmt.Sprintf("/goals/board/%d", board.ID), nil, reader.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "reader", response["your_role"])
	participants := response["participants"].([]any)
	assert.Len(suite.T(), participants, 2)
}

func (suite *BoardHandlerTestSuite) TestUpdateBoard_ReaderForbidden() {
	owner := suite.createTestUser("owner")
	reader := suite.createTestUser("reader")
	board := suite.createTestBoard("Shared", owner.ID)
	suite.addParticipant(board.ID, reader.ID, models.RoleReader)

	w := suite.request("PUT", fmt.Sprintf("/goals/board/%d", board.ID), map[string]any{"title": "Renamed"}, reader.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *BoardHandlerTestSuite) TestUpdateBoard_ReplacesParticipants() {
	owner := suite.createTestUser("owner")
	oldWriter := suite.createTestUser("old_writer")
	newReader := suite.createTestUser("new_reader")
	board := suite.createTestBoard("Shared", owner.ID)
	suite.addParticipant(board.ID, oldWriter.ID, models.RoleWriter)

	w := suite.request("PUT", fmt.Sprintf("/goals/board/%d", board.ID), map[string]any{
		"title": "Renamed",
		"participants": []map[string]string{
			{"user": "new_reader", "role": "reader"},
		},
	}, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var participants []models.BoardParticipant
	suite.Require().NoError(suite.db.Where("board_id = ?", board.ID).Find(&participants).Error)
	suite.Require().Len(participants, 2)

	roles := map[uint64]models.BoardRole{}
	for _, p := range participants {
		roles[p.UserID] = p.Role
	}
	assert.Equal(suite.T(), models.RoleOwner, roles[owner.ID])
	assert.Equal(suite.T(), models.RoleReader, roles[newReader.ID])
	assert.NotContains(suite.T(), roles, oldWriter.ID)

	var updated models.Board
	suite.Require().NoError(suite.db.First(&updated, board.ID).Error)
	assert.Equal(suite.T(), "Renamed", updated.Title)
}

func (suite *BoardHandlerTestSuite) TestUpdateBoard_DuplicateParticipant() {
	owner := suite.createTestUser("owner")
	friend := suite.createTestUser("friend")
	board := suite.createTestBoard("Shared", owner.ID)
	suite.addParticipant(board.ID, friend.ID, models.RoleWriter)

	w := suite.request("PUT", fmt.Sprintf("/goals/board/%d", board.ID), map[string]any{
		"title": "Renamed",
		"participants": []map[string]string{
			{"user": "friend", "role": "reader"},
			{"user": "friend", "role": "writer"},
		},
	}, owner.ID)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)

	var response map[string]any
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "INVALID_INPUT", response["code"])

	// The rejected edit must not have touched anything.
	var untouched models.Board
	suite.Require().NoError(suite.db.First(&untouched, board.ID).Error)
	assert.Equal(suite.T(), "Shared", untouched.Title)

	var participant models.BoardParticipant
	err := suite.db.Where("board_id = ? AND user_id = ?", board.ID, friend.ID).First(&participant).Error
	suite.Require().NoError(err)
	assert.Equal(suite.T(), models.RoleWriter, participant.Role)
}

func (suite *BoardHandlerTestSuite) TestUpdateBoard_CannotGrantOwner() {
	owner := suite.createTestUser("owner")
	suite.createTestUser("friend")
	board := suite.createTestBoard("Shared", owner.ID)

	w := suite.request("PUT", fmt.Sprintf("/goals/board/%d", board.ID), map[string]any{
		"title": "Shared",
		"participants": []map[string]string{
			{"user": "friend", "role": "owner"},
		},
	}, owner.ID)
	assert.Equal(suite.T(), http.StatusBadRequest, w.Code)
}

func (suite *BoardHandlerTestSuite) TestDeleteBoard_CascadesCategoriesAndGoals() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Doomed", owner.ID)

	category := &models.GoalCategory{Title: "Cat", BoardID: board.ID, UserID: owner.ID}
	suite.db.Create(category)
	goal := &models.Goal{Title: "G", CategoryID: category.ID, UserID: owner.ID, Status: models.StatusToDo, Priority: models.PriorityMedium}
	suite.db.Create(goal)

	w := suite.request("DELETE", fmt.Sprintf("/goals/board/%d", board.ID), nil, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var deletedBoard models.Board
	suite.Require().NoError(suite.db.First(&deletedBoard, board.ID).Error)
	assert.True(suite.T(), deletedBoard.IsDeleted)

	var deletedCategory models.GoalCategory
	suite.Require().NoError(suite.db.First(&deletedCategory, category.ID).Error)
	assert.True(suite.T(), deletedCategory.IsDeleted)

	var archivedGoal models.Goal
	suite.Require().NoError(suite.db.First(&archivedGoal, goal.ID).Error)
	assert.Equal(suite.T(), models.StatusArchived, archivedGoal.Status)

	// A deleted board behaves as if it never existed.
	w = suite.request("GET", fmt.Sprintf("/goals/board/%d", board.ID), nil, owner.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *BoardHandlerTestSuite) TestDeleteBoard_WriterForbidden() {
	owner := suite.createTestUser("owner")
	writer := suite.createTestUser("writer")
	board := suite.createTestBoard("Shared", owner.ID)
	suite.addParticipant(board.ID, writer.ID, models.RoleWriter)

	w := suite.request("DELETE", fmt.Sprintf("/goals/board/%d", board.ID), nil, writer.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var untouched models.Board
	suite.Require().NoError(suite.db.First(&untouched, board.ID).Error)
	assert.False(suite.T(), untouched.IsDeleted)
}

func TestBoardHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(BoardHandlerTestSuite))
}
