package handler

import (
	"reflect"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/growthpath/backend/internal/career"
	"github.com/growthpath/backend/internal/config"
	"github.com/growthpath/backend/internal/domain"
	"github.com/growthpath/backend/internal/importer"
	"github.com/growthpath/backend/internal/llm"
	"github.com/growthpath/backend/internal/reference"
)

type Store interface {
	career.Store
	importer.Store

	CreateUser(user *domain.User) error
	GetUserByID(id int64) (*domain.User, error)
	ListUsers(filter domain.UserFilter) ([]*domain.UserSummary, int, error)
	CountAssessmentsByCategory(userID int64) (map[domain.CompetencyCategory]int, error)

	CreateCompetency(competency *domain.Competency) error
	GetCompetencyByID(id int64) (*domain.Competency, error)
	GetAllCompetencies() ([]*domain.Competency, error)

	CreateAssessment(assessment *domain.Assessment) error
	GetAssessmentsByUser(userID int64) ([]*domain.AssessmentDetail, error)
	GetAssessmentsByCompetency(competencyID int64) ([]*domain.UserAssessment, error)

	GetCareerLevels(track string) ([]*domain.CareerLevel, error)
	GetCompetencyAreaDetails(payClass string) ([]*domain.CompetencyAreaDetail, error)
	GetDevelopmentPlan(id int64) (*domain.DevelopmentPlan, error)
	GetDevelopmentPlansByUser(userID int64) ([]*domain.DevelopmentPlan, error)
	UpdateLearningObjectiveStatus(id int64, status domain.ObjectiveStatus) (*domain.LearningObjective, error)
	UpdateDevelopmentPlanStatus(id int64, status domain.PlanStatus) (*domain.DevelopmentPlan, error)

	GetSkills(filter domain.SkillFilter) ([]*domain.Skill, error)
	GetSkillByID(id int64) (*domain.Skill, error)
	GetSkillsByCategories(categories []string) ([]*domain.Skill, error)
	GetSkillCategoryCounts() ([]domain.CategoryCount, []domain.CategoryCount, error)
	UpsertUserSkill(us *domain.UserSkill) error
	GetUserSkills(userID int64) ([]*domain.UserSkill, error)

	GetDatabaseCounts() (*domain.DatabaseCounts, error)
}

type ReportStore interface {
	Save(report *domain.ImportReport) error
	Get(runID string) (*domain.ImportReport, error)
}

type MailPublisher interface {
	Publish(msg domain.MailMessage) error
}

type Handler struct {
	validate   *validator.Validate
	config     *config.Config
	store      Store
	translator ut.Translator
	planner    *career.Planner
	importer   *importer.Importer
	reports    ReportStore
	mail       MailPublisher // 为 nil 时不发送通知
	llm        *llm.Client
	reference  *reference.Loader

	Mux *chi.Mux
}

func NewHandler(cfg *config.Config, store Store, reports ReportStore, mail MailPublisher) (*Handler, error) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	// 校验错误中使用 json 字段名
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	en := en.New()
	uni := ut.New(en, en)
	trans, _ := uni.GetTranslator("en")
	if err := en_translations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, err
	}

	imp, err := importer.NewImporter(cfg, store)
	if err != nil {
		return nil, err
	}

	return &Handler{
		validate:   validate,
		config:     cfg,
		store:      store,
		translator: trans,
		planner:    career.NewPlanner(store),
		importer:   imp,
		reports:    reports,
		mail:       mail,
		llm:        llm.NewClient(cfg),
		reference:  reference.NewLoader(cfg),

		Mux: chi.NewRouter(),
	}, nil
}

func (h *Handler) RegisterRoutes() {
	h.Mux.Use(h.logger)
	h.Mux.Use(h.recoverer)

	h.Mux.Get("/", h.Root)
	h.Mux.Get("/health", h.Health)

	// 能力与评估
	h.Mux.Route("/competencies", func(r chi.Router) {
		r.Post("/", h.CreateCompetency)
		r.Get("/", h.GetAllCompetencies)
		r.With(h.competency).Get("/{id}", h.GetCompetency)
	})

	h.Mux.Route("/assessments", func(r chi.Router) {
		r.Post("/", h.CreateAssessment)
		r.Get("/user/{id}", h.GetUserAssessments)
		r.Get("/user/{id}/current", h.GetCurrentUserAssessments)
	})

	h.Mux.Route("/users", func(r chi.Router) {
		r.Post("/", h.CreateUser)
		r.Get("/", h.GetUsers)
		r.With(h.competency).Get("/search/by-skill/{id}", h.GetUsersBySkill)
		r.Route("/{id}", func(r chi.Router) {
			r.Use(h.userInfo)
			r.Get("/", h.GetUser)
			r.Get("/skills", h.GetUserCompetencies)
			r.Post("/analyze-skills", h.AnalyzeUserSkills)
		})
	})

	// 职业框架和发展计划
	h.Mux.Route("/api/career", func(r chi.Router) {
		r.Get("/paths", h.GetCareerPaths)
		r.Get("/paths/{track}/{payClass}", h.GetLevelDetails)
		r.Get("/competencies", h.GetCompetencyAreas)
		r.Post("/skills-gap", h.CalculateSkillsGap)
		r.Post("/development-plan", h.GenerateDevelopmentPlan)
		r.With(h.developmentPlan).Get("/development-plan/{id}", h.GetDevelopmentPlan)
		r.Get("/levels", h.GetCareerLevels)
		r.Get("/user-plans/{id}", h.GetUserPlans)
		r.Put("/objective/{id}", h.UpdateObjectiveStatus)
		r.Put("/plan/{id}/status", h.UpdatePlanStatus)
	})

	// 技能目录，静态路径优先于 /{id}
	h.Mux.Route("/api/skills", func(r chi.Router) {
		r.Get("/catalog", h.GetSkillsCatalog)
		r.Get("/categories", h.GetSkillCategories)
		r.Get("/hierarchical", h.GetHierarchicalSkills)
		r.Get("/recommend/{payClass}", h.RecommendSkills)
		r.Post("/user-skill", h.AddUserSkill)
		r.Get("/user-skills/{id}", h.GetUserSkills)
		r.With(h.skill).Get("/{id}", h.GetSkill)
	})

	// Planisware 导入
	h.Mux.Route("/import", func(r chi.Router) {
		r.Post("/planisware", h.ImportPlanisware)
		r.Get("/status", h.GetImportStatus)
		r.Get("/runs/{runID}", h.GetImportRun)
	})

	// LLM 代理
	h.Mux.Route("/api/llm", func(r chi.Router) {
		r.Post("/chat", h.ChatCompletion)
		r.Post("/skills/recommend", h.RecommendSkillsWithLLM)
		r.Post("/skills/gap-analysis", h.AnalyzeSkillGapWithLLM)
		r.Get("/health", h.LLMHealth)
	})
}
