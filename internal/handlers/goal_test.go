package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/ezubkova/todolist-api/internal/database"
	"github.com/ezubkova/todolist-api/internal/dto"
	"github.com/ezubkova/todolist-api/internal/middleware"
	"github.com/ezubkova/todolist-api/internal/models"
	"github.com/ezubkova/todolist-api/internal/repository"
	"github.com/ezubkova/todolist-api/internal/services"
)

// GoalHandlerTestSuite exercises category, goal and comment routes through
// the real access middleware chain.
type GoalHandlerTestSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine
}

func (suite *GoalHandlerTestSuite) SetupTest() {
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

	boardRepo := repository.NewBoardRepository(suite.db)
	goalRepo := repository.NewGoalRepository(suite.db)
	goalService := services.NewGoalService(goalRepo, boardRepo)

	categoryHandler := NewCategoryHandler(goalService)
	goalHandler := NewGoalHandler(goalService)
	commentHandler := NewCommentHandler(goalService)

	gin.SetMode(gin.TestMode)
	suite.router = gin.New()
	suite.router.Use(testAuth())

	suite.router.POST("/goals/goal_category/create", categoryHandler.CreateCategory)
	suite.router.GET("/goals/goal_category/list", categoryHandler.ListCategories)
	suite.router.GET("/goals/goal_category/:id", middleware.RequireCategoryAccess(), categoryHandler.GetCategory)
	suite.router.PUT("/goals/goal_category/:id", middleware.RequireCategoryAccess(), categoryHandler.UpdateCategory)
	suite.router.DELETE("/goals/goal_category/:id", middleware.RequireCategoryAccess(), categoryHandler.DeleteCategory)

	suite.router.POST("/goals/goal/create", goalHandler.CreateGoal)
	suite.router.GET("/goals/goal/list", goalHandler.ListGoals)
	suite.router.GET("/goals/goal/:id", middleware.RequireGoalAccess(), goalHandler.GetGoal)
	suite.router.PUT("/goals/goal/:id", middleware.RequireGoalAccess(), goalHandler.UpdateGoal)
	suite.router.DELETE("/goals/goal/:id", middleware.RequireGoalAccess(), goalHandler.DeleteGoal)

	suite.router.POST("/goals/goal_comment/create", commentHandler.CreateComment)
	suite.router.GET("/goals/goal_comment/list", commentHandler.ListComments)
	suite.router.GET("/goals/goal_comment/:id", middleware.RequireCommentAccess(), commentHandler.GetComment)
	suite.router.PUT("/goals/goal_comment/:id", middleware.RequireCommentAccess(), commentHandler.UpdateComment)
	suite.router.DELETE("/goals/goal_comment/:id", middleware.RequireCommentAccess(), commentHandler.DeleteComment)
}

func (suite *GoalHandlerTestSuite) TearDownTest() {
	sqlDB, err := suite.db.DB()
	suite.Require().NoError(err)
	sqlDB.Close()
}

func (suite *GoalHandlerTestSuite) createTestUser(username string) *models.User {
	user := &models.User{
		Username:     username,
		PasswordHash: "hashedpassword",
	}
	suite.db.Create(user)
	return user
}

func (suite *GoalHandlerTestSuite) createTestBoard(title string, ownerID uint64) *models.Board {
	board := &models.Board{Title: title}
	suite.db.Create(board)
	suite.db.Create(&models.BoardParticipant{
		BoardID: board.ID,
		UserID:  ownerID,
		Role:    models.RoleOwner,
	})
	return board
}

func (suite *GoalHandlerTestSuite) addParticipant(boardID, userID uint64, role models.BoardRole) {
	suite.db.Create(&models.BoardParticipant{
		BoardID: boardID,
		UserID:  userID,
		Role:    role,
	})
}

func (suite *GoalHandlerTestSuite) createTestCategory(title string, boardID, userID uint64) *models.GoalCategory {
	category := &models.GoalCategory{
		Title:   title,
		BoardID: boardID,
		UserID:  userID,
	}
	suite.db.Create(category)
	return category
}

func (suite *GoalHandlerTestSuite) createTestGoal(title string, categoryID, userID uint64) *models.Goal {
	goal := &models.Goal{
		Title:      title,
		CategoryID: categoryID,
		UserID:     userID,
		Status:     models.StatusToDo,
		Priority:   models.PriorityMedium,
	}
	suite.db.Create(goal)
	return goal
}

func (suite *GoalHandlerTestSuite) createTestComment(text string, goalID, userID uint64) *models.GoalComment {
	comment := &models.GoalComment{
		Text:   text,
		GoalID: goalID,
		UserID: userID,
	}
	suite.db.Create(comment)
	return comment
}

func (suite *GoalHandlerTestSuite) request(method, url string, payload any, userID uint64) *httptest.ResponseRecorder {
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

func (suite *GoalHandlerTestSuite) TestCreateCategory_Writer() {
	owner := suite.createTestUser("owner")
	writer := suite.createTestUser("writer")
	board := suite.createTestBoard("Board", owner.ID)
	suite.addParticipant(board.ID, writer.ID, models.RoleWriter)

	w := suite.request("POST", "/goals/goal_category/create", map[string]any{
		"title": "Health",
		"board": board.ID,
	}, writer.ID)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.CategoryDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), "Health", response.Title)
	assert.Equal(suite.T(), board.ID, response.BoardID)
}

func (suite *GoalHandlerTestSuite) TestCreateCategory_Reader() {
	owner := suite.createTestUser("owner")
	reader := suite.createTestUser("reader")
	board := suite.createTestBoard("Board", owner.ID)
	suite.addParticipant(board.ID, reader.ID, models.RoleReader)

	w := suite.request("POST", "/goals/goal_category/create", map[string]any{
		"title": "Health",
		"board": board.ID,
	}, reader.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *GoalHandlerTestSuite) TestGetCategory_NonParticipant() {
	owner := suite.createTestUser("owner")
	outsider := suite.createTestUser("outsider")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)

	w := suite.request("GET", fmt.Sprintf("/goals/goal_category/%d", category.ID), nil, outsider.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *GoalHandlerTestSuite) TestDeleteCategory_ArchivesGoals() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	goal := suite.createTestGoal("Run", category.ID, owner.ID)

	w := suite.request("DELETE", fmt.Sprintf("/goals/goal_category/%d", category.ID), nil, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var deleted models.GoalCategory
	suite.Require().NoError(suite.db.First(&deleted, category.ID).Error)
	assert.True(suite.T(), deleted.IsDeleted)

	var archived models.Goal
	suite.Require().NoError(suite.db.First(&archived, goal.ID).Error)
	assert.Equal(suite.T(), models.StatusArchived, archived.Status)
}

func (suite *GoalHandlerTestSuite) TestCreateGoal_Defaults() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)

	w := suite.request("POST", "/goals/goal/create", map[string]any{
		"title":    "Run a marathon",
		"category": category.ID,
	}, owner.ID)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)

	var response dto.GoalDTO
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(suite.T(), models.StatusToDo, response.Status)
	assert.Equal(suite.T(), models.PriorityMedium, response.Priority)
}

func (suite *GoalHandlerTestSuite) TestCreateGoal_ForeignCategory() {
	owner := suite.createTestUser("owner")
	outsider := suite.createTestUser("outsider")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)

	w := suite.request("POST", "/goals/goal/create", map[string]any{
		"title":    "Sneaky goal",
		"category": category.ID,
	}, outsider.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *GoalHandlerTestSuite) TestCreateGoal_DeletedCategory() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	suite.db.Model(category).Update("is_deleted", true)

	w := suite.request("POST", "/goals/goal/create", map[string]any{
		"title":    "Too late",
		"category": category.ID,
	}, owner.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *GoalHandlerTestSuite) TestListGoals_ExcludesArchived() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	suite.createTestGoal("Active", category.ID, owner.ID)
	archived := suite.createTestGoal("Archived", category.ID, owner.ID)
	suite.db.Model(archived).Update("status", models.StatusArchived)

	w := suite.request("GET", "/goals/goal/list", nil, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.GoalListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Goals, 1)
	assert.Equal(suite.T(), "Active", response.Goals[0].Title)
	assert.Equal(suite.T(), int64(1), response.TotalCount)
}

func (suite *GoalHandlerTestSuite) TestListGoals_DueDateRange() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)

	soon := time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)
	later := time.Date(2026, 12, 1, 0, 0, 0, 0, time.UTC)
	goalSoon := suite.createTestGoal("Soon", category.ID, owner.ID)
	suite.db.Model(goalSoon).Update("due_date", soon)
	goalLater := suite.createTestGoal("Later", category.ID, owner.ID)
	suite.db.Model(goalLater).Update("due_date", later)

	w := suite.request("GET", "/goals/goal/list?due_date__gte=2026-09-01&due_date__lte=2026-09-30", nil, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.GoalListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Goals, 1)
	assert.Equal(suite.T(), "Soon", response.Goals[0].Title)
}

func (suite *GoalHandlerTestSuite) TestListGoals_Search() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	suite.createTestGoal("Run a marathon", category.ID, owner.ID)
	suite.createTestGoal("Read a book", category.ID, owner.ID)

	w := suite.request("GET", "/goals/goal/list?search=marathon", nil, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.GoalListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Goals, 1)
	assert.Equal(suite.T(), "Run a marathon", response.Goals[0].Title)
}

func (suite *GoalHandlerTestSuite) TestListGoals_Ordering() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)

	older := suite.createTestGoal("Alpha", category.ID, owner.ID)
	newer := suite.createTestGoal("Zulu", category.ID, owner.ID)
	suite.db.Model(older).Update("created_at", time.Now().Add(-time.Hour))
	suite.db.Model(newer).Update("created_at", time.Now())

	// Default order is by title.
	w := suite.request("GET", "/goals/goal/list", nil, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.GoalListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Goals, 2)
	assert.Equal(suite.T(), "Alpha", response.Goals[0].Title)

	// ordering=-created flips to newest first regardless of title.
	w = suite.request("GET", "/goals/goal/list?ordering=-created", nil, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	response = dto.GoalListResponse{}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Goals, 2)
	assert.Equal(suite.T(), "Zulu", response.Goals[0].Title)
	assert.Equal(suite.T(), "Alpha", response.Goals[1].Title)
}

func (suite *GoalHandlerTestSuite) TestUpdateGoal_PartialStatus() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	goal := suite.createTestGoal("Run", category.ID, owner.ID)

	w := suite.request("PUT", fmt.Sprintf("/goals/goal/%d", goal.ID), map[string]any{
		"status": models.StatusDone,
	}, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var updated models.Goal
	suite.Require().NoError(suite.db.First(&updated, goal.ID).Error)
	assert.Equal(suite.T(), models.StatusDone, updated.Status)
	assert.Equal(suite.T(), "Run", updated.Title)
}

func (suite *GoalHandlerTestSuite) TestUpdateGoal_ReaderForbidden() {
	owner := suite.createTestUser("owner")
	reader := suite.createTestUser("reader")
	board := suite.createTestBoard("Board", owner.ID)
	suite.addParticipant(board.ID, reader.ID, models.RoleReader)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	goal := suite.createTestGoal("Run", category.ID, owner.ID)

	w := suite.request("PUT", fmt.Sprintf("/goals/goal/%d", goal.ID), map[string]any{
		"title": "Hijacked",
	}, reader.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *GoalHandlerTestSuite) TestUpdateGoal_MoveToForeignCategory() {
	owner := suite.createTestUser("owner")
	other := suite.createTestUser("other")
	board := suite.createTestBoard("Board", owner.ID)
	foreignBoard := suite.createTestBoard("Foreign", other.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	foreignCategory := suite.createTestCategory("Foreign Cat", foreignBoard.ID, other.ID)
	goal := suite.createTestGoal("Run", category.ID, owner.ID)

	w := suite.request("PUT", fmt.Sprintf("/goals/goal/%d", goal.ID), map[string]any{
		"category": foreignCategory.ID,
	}, owner.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)

	var unchanged models.Goal
	suite.Require().NoError(suite.db.First(&unchanged, goal.ID).Error)
	assert.Equal(suite.T(), category.ID, unchanged.CategoryID)
}

func (suite *GoalHandlerTestSuite) TestDeleteGoal_Archives() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	goal := suite.createTestGoal("Run", category.ID, owner.ID)

	w := suite.request("DELETE", fmt.Sprintf("/goals/goal/%d", goal.ID), nil, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	// The row stays, flipped to archived.
	var archived models.Goal
	suite.Require().NoError(suite.db.First(&archived, goal.ID).Error)
	assert.Equal(suite.T(), models.StatusArchived, archived.Status)

	// Archived goals are invisible to reads.
	w = suite.request("GET", fmt.Sprintf("/goals/goal/%d", goal.ID), nil, owner.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *GoalHandlerTestSuite) TestCreateComment_Writer() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	goal := suite.createTestGoal("Run", category.ID, owner.ID)

	w := suite.request("POST", "/goals/goal_comment/create", map[string]any{
		"text": "Keep going",
		"goal": goal.ID,
	}, owner.ID)
	assert.Equal(suite.T(), http.StatusCreated, w.Code)
}

func (suite *GoalHandlerTestSuite) TestCreateComment_Reader() {
	owner := suite.createTestUser("owner")
	reader := suite.createTestUser("reader")
	board := suite.createTestBoard("Board", owner.ID)
	suite.addParticipant(board.ID, reader.ID, models.RoleReader)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	goal := suite.createTestGoal("Run", category.ID, owner.ID)

	w := suite.request("POST", "/goals/goal_comment/create", map[string]any{
		"text": "Keep going",
		"goal": goal.ID,
	}, reader.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *GoalHandlerTestSuite) TestListComments_NonParticipant() {
	owner := suite.createTestUser("owner")
	outsider := suite.createTestUser("outsider")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	goal := suite.createTestGoal("Run", category.ID, owner.ID)
	suite.createTestComment("Secret", goal.ID, owner.ID)

	w := suite.request("GET", fmt.Sprintf("/goals/goal_comment/list?goal=%d", goal.ID), nil, outsider.ID)
	assert.Equal(suite.T(), http.StatusNotFound, w.Code)
}

func (suite *GoalHandlerTestSuite) TestListComments_NewestFirst() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	goal := suite.createTestGoal("Run", category.ID, owner.ID)

	first := suite.createTestComment("First", goal.ID, owner.ID)
	second := suite.createTestComment("Second", goal.ID, owner.ID)
	suite.db.Model(first).Update("created_at", time.Now().Add(-time.Hour))
	suite.db.Model(second).Update("created_at", time.Now())

	w := suite.request("GET", fmt.Sprintf("/goals/goal_comment/list?goal=%d", goal.ID), nil, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var response dto.CommentListResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &response))
	suite.Require().Len(response.Comments, 2)
	assert.Equal(suite.T(), "Second", response.Comments[0].Text)
	assert.Equal(suite.T(), "First", response.Comments[1].Text)
}

func (suite *GoalHandlerTestSuite) TestUpdateComment_NotAuthor() {
	owner := suite.createTestUser("owner")
	writer := suite.createTestUser("writer")
	board := suite.createTestBoard("Board", owner.ID)
	suite.addParticipant(board.ID, writer.ID, models.RoleWriter)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	goal := suite.createTestGoal("Run", category.ID, owner.ID)
	comment := suite.createTestComment("Mine", goal.ID, owner.ID)

	// A writer on the board still cannot edit someone else's comment.
	w := suite.request("PUT", fmt.Sprintf("/goals/goal_comment/%d", comment.ID), map[string]any{
		"text": "Rewritten",
	}, writer.ID)
	assert.Equal(suite.T(), http.StatusForbidden, w.Code)
}

func (suite *GoalHandlerTestSuite) TestDeleteComment_Author() {
	owner := suite.createTestUser("owner")
	board := suite.createTestBoard("Board", owner.ID)
	category := suite.createTestCategory("Health", board.ID, owner.ID)
	goal := suite.createTestGoal("Run", category.ID, owner.ID)
	comment := suite.createTestComment("Mine", goal.ID, owner.ID)

	w := suite.request("DELETE", fmt.Sprintf("/goals/goal_comment/%d", comment.ID), nil, owner.ID)
	assert.Equal(suite.T(), http.StatusOK, w.Code)

	var count int64
	suite.db.Model(&models.GoalComment{}).Where("id = ?", comment.ID).Count(&count)
	assert.Equal(suite.T(), int64(0), count)
}

func TestGoalHandlerTestSuite(t *testing.T) {
	suite.Run(t, new(GoalHandlerTestSuite))
}
