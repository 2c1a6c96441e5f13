package endpoint

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/ariebrainware/tutorclass/middleware"
	"github.com/ariebrainware/tutorclass/model"
	"github.com/ariebrainware/tutorclass/util"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errMissingFilters  = errors.New("Missing filters to search classes")
	errInvalidFilters  = errors.New("Invalid filters to search classes")
	errCreateClass     = errors.New("Unexpected error while creating new class")
	errInvalidSchedule = errors.New("invalid schedule")
)

type classFilter struct {
	WeekDay int
	Subject string
	Minutes int
}

func (f classFilter) cacheKey() util.SearchKey {
	return util.SearchKey{WeekDay: f.WeekDay, Minutes: f.Minutes, Subject: f.Subject}
}

func parseClassFilter(c *gin.Context) (classFilter, error) {
	weekDay := c.Query("week_day")
	subject := c.Query("subject")
	timeOfDay := c.Query("time")

	if weekDay == "" || subject == "" || timeOfDay == "" {
		return classFilter{}, errMissingFilters
	}

	day, err := strconv.Atoi(weekDay)
	if err != nil || day < 0 || day > 6 {
		return classFilter{}, fmt.Errorf("%w: week_day must be between 0 and 6, got %q", errInvalidFilters, weekDay)
	}
	minutes, err := util.ConvertHourToMinutes(timeOfDay)
	if err != nil || minutes >= util.MinutesPerDay {
		return classFilter{}, fmt.Errorf("%w: time must be HH:MM, got %q", errInvalidFilters, timeOfDay)
	}

	return classFilter{WeekDay: day, Subject: subject, Minutes: minutes}, nil
}

func scheduleColumn(name string) clause.Column {
	return clause.Column{Table: "class_schedules", Name: name}
}

// fetchClasses returns the classes teaching f.Subject that have a slot on
// f.WeekDay covering f.Minutes (from <= t < to), joined with their owner.
func fetchClasses(db *gorm.DB, f classFilter) ([]model.ClassSearchResult, error) {
	// from/to are reserved words; clause.Column lets the dialect quote them.
	slots := db.Model(&model.ClassSchedule{}).
		Select("1").
		Where("class_schedules.class_id = classes.id").
		Where(clause.Eq{Column: scheduleColumn("week_day"), Value: f.WeekDay}).
		Where(clause.Lte{Column: scheduleColumn("from"), Value: f.Minutes}).
		Where(clause.Gt{Column: scheduleColumn("to"), Value: f.Minutes})

	classes := []model.ClassSearchResult{}
	err := db.Model(&model.Class{}).
		Select("classes.id, classes.subject, classes.cost, classes.user_id, users.name, users.avatar, users.whatsapp, users.bio").
		Joins("JOIN users ON users.id = classes.user_id AND users.deleted_at IS NULL").
		Where("classes.subject = ?", f.Subject).
		Where("EXISTS (?)", slots).
		Order("classes.id").
		Scan(&classes).Error
	if err != nil {
		return nil, err
	}
	return classes, nil
}

// ListClasses godoc
// @Summary      Search classes
// @Description  List classes of a subject with a schedule slot covering the given weekday and time
// @Tags         Class
// @Produce      json
// @Param        week_day query int true "Weekday, 0 (Sunday) to 6"
// @Param        subject query string true "Subject, exact match"
// @Param        time query string true "Time of day as HH:MM"
// @Success      200 {array} model.ClassSearchResult
// @Failure      400 {object} util.APIResponse "Missing or invalid filters"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /classes [get]
func ListClasses(c *gin.Context) {
	filter, err := parseClassFilter(c)
	if err != nil {
		if errors.Is(err, errMissingFilters) {
			util.CallUserError(c, util.APIErrorParams{
				Msg: "week_day, subject and time are required",
				Err: errMissingFilters,
			})
			return
		}
		util.CallUserError(c, util.APIErrorParams{
			Msg: err.Error(),
			Err: errInvalidFilters,
		})
		return
	}

	cached := util.GetCachedSearch(c.Request.Context(), filter.cacheKey())
	if cached.Hit {
		c.JSON(http.StatusOK, cached.Rows)
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	classes, err := fetchClasses(db, filter)
	if err != nil {
		util.Log.WithError(err).WithField("request_id", middleware.GetRequestID(c)).Error("failed to search classes")
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Failed to search classes",
			Err: err,
		})
		return
	}

	util.SetCachedSearch(c.Request.Context(), filter.cacheKey(), cached.Gen, classes)
	c.JSON(http.StatusOK, classes)
}

// weekDay decodes from a JSON integer or a numeric string such as "1".
type weekDay int

func (d *weekDay) UnmarshalJSON(b []byte) error {
	raw := string(b)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(b, &raw); err != nil {
			return err
		}
		raw = strings.TrimSpace(raw)
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("week_day must be an integer, got %s", b)
	}
	*d = weekDay(v)
	return nil
}

type scheduleRequest struct {
	WeekDay *weekDay `json:"week_day" binding:"required" swaggertype:"integer" example:"1"`
	From    string   `json:"from" binding:"required" example:"08:00"`
	To      string   `json:"to" binding:"required" example:"12:00"`
}

type createClassRequest struct {
	Name      string            `json:"name" binding:"required" example:"Diego Fernandes"`
	Avatar    string            `json:"avatar" example:"https://github.com/diego3g.png"`
	Whatsapp  string            `json:"whatsapp" example:"5511999999999"`
	Bio       string            `json:"bio" example:"Chemistry enthusiast"`
	Subject   string            `json:"subject" binding:"required" example:"Chemistry"`
	Cost      float64           `json:"cost" example:"80"`
	Schedules []scheduleRequest `json:"schedules" binding:"required,min=1,dive"`
}

// toSchedule converts one requested slot to minutes and checks 0 <= week_day <= 6 and from < to.
func (s scheduleRequest) toSchedule() (model.ClassSchedule, error) {
	if s.WeekDay == nil || *s.WeekDay < 0 || *s.WeekDay > 6 {
		return model.ClassSchedule{}, fmt.Errorf("%w: week_day must be between 0 and 6", errInvalidSchedule)
	}
	from, err := util.ConvertHourToMinutes(s.From)
	if err != nil {
		return model.ClassSchedule{}, fmt.Errorf("%w: from: %v", errInvalidSchedule, err)
	}
	to, err := util.ConvertHourToMinutes(s.To)
	if err != nil {
		return model.ClassSchedule{}, fmt.Errorf("%w: to: %v", errInvalidSchedule, err)
	}
	if from >= to {
		fromHour, _ := util.ConvertMinutesToHour(from)
		toHour, _ := util.ConvertMinutesToHour(to)
		return model.ClassSchedule{}, fmt.Errorf("%w: from %s must be before to %s", errInvalidSchedule, fromHour, toHour)
	}
	return model.ClassSchedule{WeekDay: int(*s.WeekDay), From: from, To: to}, nil
}

// validateClassRequest checks the payload and converts its schedules. The name
// is stored as given; normalization only decides whether it is blank.
func validateClassRequest(req createClassRequest) ([]model.ClassSchedule, error) {
	if util.NormalizeName(req.Name) == "" {
		return nil, fmt.Errorf("name is empty or missing required fields")
	}
	if req.Subject == "" {
		return nil, fmt.Errorf("subject is empty or missing required fields")
	}
	if req.Cost < 0 {
		return nil, fmt.Errorf("cost must not be negative")
	}
	if len(req.Schedules) == 0 {
		return nil, fmt.Errorf("%w: at least one schedule is required", errInvalidSchedule)
	}

	schedules := make([]model.ClassSchedule, 0, len(req.Schedules))
	for i, s := range req.Schedules {
		schedule, err := s.toSchedule()
		if err != nil {
			return nil, fmt.Errorf("schedule %d: %w", i+1, err)
		}
		schedules = append(schedules, schedule)
	}
	return schedules, nil
}

// createClassInDB inserts the user, its class and the class schedules in one
// transaction. Nothing is persisted if any insert fails.
func createClassInDB(db *gorm.DB, req createClassRequest, schedules []model.ClassSchedule) (model.Class, error) {
	var class model.Class
	err := db.Transaction(func(tx *gorm.DB) error {
		user := model.User{
			Name:     req.Name,
			Avatar:   req.Avatar,
			Whatsapp: req.Whatsapp,
			Bio:      req.Bio,
		}
		if err := tx.Omit(clause.Associations).Create(&user).Error; err != nil {
			return fmt.Errorf("insert user: %w", err)
		}

		class = model.Class{
			Subject: req.Subject,
			Cost:    req.Cost,
			UserID:  user.ID,
		}
		if err := tx.Omit(clause.Associations).Create(&class).Error; err != nil {
			return fmt.Errorf("insert class: %w", err)
		}

		rows := make([]model.ClassSchedule, len(schedules))
		for i, s := range schedules {
			rows[i] = model.ClassSchedule{ClassID: class.ID, WeekDay: s.WeekDay, From: s.From, To: s.To}
		}
		if err := tx.Create(&rows).Error; err != nil {
			return fmt.Errorf("insert class schedules: %w", err)
		}
		class.Schedules = rows
		return nil
	})
	if err != nil {
		return model.Class{}, err
	}
	return class, nil
}

// CreateClass godoc
// @Summary      Register a tutor class
// @Description  Create a tutor profile, the class they teach and its weekly schedule in one transaction
// @Tags         Class
// @Accept       json
// @Produce      json
// @Param        request body createClassRequest true "Tutor, class and schedules"
// @Success      201 "Class created"
// @Failure      400 {object} util.APIResponse "Invalid payload or failed transaction"
// @Failure      429 {object} util.APIResponse "Too many requests"
// @Failure      500 {object} util.APIResponse "Server error"
// @Router       /classes [post]
func CreateClass(c *gin.Context) {
	req := createClassRequest{}
	if err := c.ShouldBindJSON(&req); err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Invalid request body",
			Err: errCreateClass,
		})
		return
	}

	schedules, err := validateClassRequest(req)
	if err != nil {
		util.CallUserError(c, util.APIErrorParams{
			Msg: err.Error(),
			Err: errCreateClass,
		})
		return
	}

	db := middleware.GetDB(c)
	if db == nil {
		util.CallServerError(c, util.APIErrorParams{
			Msg: "Database connection not available",
			Err: fmt.Errorf("db is nil"),
		})
		return
	}

	class, err := createClassInDB(db, req, schedules)
	if err != nil {
		util.Log.WithError(err).WithFields(logrus.Fields{
			"request_id": middleware.GetRequestID(c),
			"subject":    req.Subject,
		}).Error("failed to create class, transaction rolled back")
		util.CallUserError(c, util.APIErrorParams{
			Msg: "Failed to create class",
			Err: errCreateClass,
		})
		return
	}

	if err := util.InvalidateSearchCache(c.Request.Context()); err != nil {
		util.Log.WithError(err).Warn("failed to invalidate search cache")
	}

	util.Log.WithFields(logrus.Fields{
		"class_id":  class.ID,
		"user_id":   class.UserID,
		"subject":   class.Subject,
		"schedules": len(class.Schedules),
	}).Info("class created")

	c.Status(http.StatusCreated)
}
