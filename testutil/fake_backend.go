// Package testutil provides in-process stand-ins for the menu backend and the
// image host so the console can be exercised end to end in tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/yeremiapane/menu-admin/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type FakeDish struct {
	ID          uint    `gorm:"primaryKey"`
	Name        string  `gorm:"type:varchar(255);not null"`
	Description string  `gorm:"type:text"`
	Price       float64 `gorm:"not null"`
	ImageURL    string  `gorm:"type:varchar(255)"`
	Category    string  `gorm:"type:varchar(100)"`
}

type FakeTodayEntry struct {
	ID     uint `gorm:"primaryKey"`
	DishID uint `gorm:"uniqueIndex;not null"`
}

type failure struct {
	status  int
	message string
}

// FakeBackend serves the menu REST API from an in-memory sqlite database.
type FakeBackend struct {
	DB     *gorm.DB
	Server *httptest.Server

	// EchoCreated makes addDish return the created record.
	EchoCreated bool
	// ReportBatch makes addDishToday list added and rejected ids.
	ReportBatch bool
	// PriceAsText sends prices as strings, the way one of the screens did.
	PriceAsText bool

	mu       sync.Mutex
	failures map[string]failure
	rejects  map[string]bool
	calls    map[string]int
}

func NewFakeBackend(t testing.TB) *FakeBackend {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("failed to open in-memory sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("failed to get sql.DB: %v", err)
	}
	// one connection keeps the in-memory database alive and serialises access
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&FakeDish{}, &FakeTodayEntry{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}

	fb := &FakeBackend{
		DB:          db,
		EchoCreated: true,
		failures:    make(map[string]failure),
		rejects:     make(map[string]bool),
		calls:       make(map[string]int),
	}
	fb.Server = httptest.NewServer(fb.router())
	t.Cleanup(func() {
		fb.Server.Close()
		sqlDB.Close()
	})
	return fb
}

func (fb *FakeBackend) URL() string { return fb.Server.URL }

// Seed inserts dishes and returns them with their assigned ids.
func (fb *FakeBackend) Seed(t testing.TB, inputs ...models.DishInput) []models.Dish {
	t.Helper()
	out := make([]models.Dish, 0, len(inputs))
	for _, in := range inputs {
		row := FakeDish{Name: in.Name, Description: in.Description, Price: float64(in.Price), ImageURL: in.ImageURL, Category: in.Category}
		if err := fb.DB.Create(&row).Error; err != nil {
			t.Fatalf("seed dish: %v", err)
		}
		out = append(out, row.toDish())
	}
	return out
}

func (fb *FakeBackend) SeedToday(t testing.TB, ids ...models.DishID) {
	t.Helper()
	for _, id := range ids {
		n, err := strconv.ParseUint(id.String(), 10, 64)
		if err != nil {
			t.Fatalf("seed today: bad id %q", id)
		}
		if err := fb.DB.Create(&FakeTodayEntry{DishID: uint(n)}).Error; err != nil {
			t.Fatalf("seed today: %v", err)
		}
	}
}

// Fail makes the next call to route (a gin route pattern such as
// "/api/deleteDish/:id") answer status with {"error": message}.
func (fb *FakeBackend) Fail(route string, status int, message string) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.failures[route] = failure{status: status, message: message}
}

// Reject makes addDishToday refuse id while still answering 2xx.
func (fb *FakeBackend) Reject(id models.DishID) {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	fb.rejects[id.String()] = true
}

func (fb *FakeBackend) Calls(route string) int {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.calls[route]
}

func (fb *FakeBackend) Dishes(t testing.TB) []models.Dish {
	t.Helper()
	var rows []FakeDish
	if err := fb.DB.Order("id").Find(&rows).Error; err != nil {
		t.Fatalf("list dishes: %v", err)
	}
	out := make([]models.Dish, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDish())
	}
	return out
}

func (fb *FakeBackend) TodayIDs(t testing.TB) []models.DishID {
	t.Helper()
	var entries []FakeTodayEntry
	if err := fb.DB.Order("id").Find(&entries).Error; err != nil {
		t.Fatalf("list today: %v", err)
	}
	out := make([]models.DishID, 0, len(entries))
	for _, e := range entries {
		out = append(out, models.DishID(strconv.FormatUint(uint64(e.DishID), 10)))
	}
	return out
}

func (d FakeDish) toDish() models.Dish {
	return models.Dish{
		ID:          models.DishID(strconv.FormatUint(uint64(d.ID), 10)),
		Name:        d.Name,
		Description: d.Description,
		Price:       models.Price(d.Price),
		ImageURL:    d.ImageURL,
		Category:    d.Category,
	}
}

func (fb *FakeBackend) render(d FakeDish) gin.H {
	var price interface{} = d.Price
	if fb.PriceAsText {
		price = strconv.FormatFloat(d.Price, 'f', -1, 64)
	}
	return gin.H{
		"id":          d.ID,
		"name":        d.Name,
		"description": d.Description,
		"price":       price,
		"imageUrl":    d.ImageURL,
		"category":    d.Category,
	}
}

func (fb *FakeBackend) router() *gin.Engine {
	r := gin.New()
	r.Use(fb.track())

	r.GET("/api/getDish", fb.listDishes)
	r.POST("/api/addDish", fb.addDish)
	r.PUT("/api/updateDish/:id", fb.updateDish)
	r.DELETE("/api/deleteDish/:id", fb.deleteDish)
	r.GET("/api/getDishToday", fb.listToday)
	r.POST("/api/addDishToday", fb.addToday)
	r.DELETE("/api/deleteDishToday/:id", fb.deleteToday)
	return r
}

func (fb *FakeBackend) track() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()

		fb.mu.Lock()
		fb.calls[route]++
		f, fail := fb.failures[route]
		if fail {
			delete(fb.failures, route)
		}
		fb.mu.Unlock()

		if fail {
			c.AbortWithStatusJSON(f.status, gin.H{"error": f.message})
			return
		}
		c.Next()
	}
}

func (fb *FakeBackend) listDishes(c *gin.Context) {
	var rows []FakeDish
	if err := fb.DB.Order("id").Find(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(rows))
	for _, r := range rows {
		out = append(out, fb.render(r))
	}
	c.JSON(http.StatusOK, out)
}

func (fb *FakeBackend) addDish(c *gin.Context) {
	var in models.DishInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row := FakeDish{Name: in.Name, Description: in.Description, Price: float64(in.Price), ImageURL: in.ImageURL, Category: in.Category}
	if err := fb.DB.Create(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if fb.EchoCreated {
		c.JSON(http.StatusCreated, gin.H{"message": "Dish added", "dish": fb.render(row)})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Dish added"})
}

func (fb *FakeBackend) updateDish(c *gin.Context) {
	row, ok := fb.findDish(c)
	if !ok {
		return
	}

	var in models.DishInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := in.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	row.Name = in.Name
	row.Description = in.Description
	row.Price = float64(in.Price)
	row.ImageURL = in.ImageURL
	row.Category = in.Category
	if err := fb.DB.Save(&row).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dish updated"})
}

func (fb *FakeBackend) deleteDish(c *gin.Context) {
	row, ok := fb.findDish(c)
	if !ok {
		return
	}
	if err := fb.DB.Where("dish_id = ?", row.ID).Delete(&FakeTodayEntry{}).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if err := fb.DB.Delete(&FakeDish{}, row.ID).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dish deleted"})
}

func (fb *FakeBackend) listToday(c *gin.Context) {
	var entries []FakeTodayEntry
	if err := fb.DB.Order("id").Find(&entries).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	out := make([]gin.H, 0, len(entries))
	for _, e := range entries {
		var row FakeDish
		if err := fb.DB.First(&row, e.DishID).Error; err != nil {
			continue
		}
		out = append(out, fb.render(row))
	}
	c.JSON(http.StatusOK, out)
}

func (fb *FakeBackend) addToday(c *gin.Context) {
	var body struct {
		Dishes []models.DishID `json:"dishes"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if len(body.Dishes) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dishes is required"})
		return
	}

	added := []string{}
	rejected := []string{}
	for _, id := range body.Dishes {
		if fb.isRejected(id) {
			rejected = append(rejected, id.String())
			continue
		}
		n, err := strconv.ParseUint(id.String(), 10, 64)
		if err != nil {
			rejected = append(rejected, id.String())
			continue
		}
		var count int64
		fb.DB.Model(&FakeDish{}).Where("id = ?", n).Count(&count)
		if count == 0 {
			rejected = append(rejected, id.String())
			continue
		}
		fb.DB.Model(&FakeTodayEntry{}).Where("dish_id = ?", n).Count(&count)
		if count == 0 {
			if err := fb.DB.Create(&FakeTodayEntry{DishID: uint(n)}).Error; err != nil {
				rejected = append(rejected, id.String())
				continue
			}
		}
		added = append(added, id.String())
	}

	if fb.ReportBatch {
		c.JSON(http.StatusOK, gin.H{"message": "Dishes added", "added": added, "rejected": rejected})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dishes added"})
}

func (fb *FakeBackend) deleteToday(c *gin.Context) {
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	res := fb.DB.Where("dish_id = ?", n).Delete(&FakeTodayEntry{})
	if res.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": res.Error.Error()})
		return
	}
	if res.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dish removed"})
}

func (fb *FakeBackend) findDish(c *gin.Context) (FakeDish, bool) {
	var row FakeDish
	n, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return row, false
	}
	if err := fb.DB.First(&row, n).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return row, false
	}
	return row, true
}

func (fb *FakeBackend) isRejected(id models.DishID) bool {
	fb.mu.Lock()
	defer fb.mu.Unlock()
	return fb.rejects[id.String()]
}
