package handler

type ContextKey string

var (
	UserInfoCtx        ContextKey = "userInfo"
	CompetencyCtx      ContextKey = "competency"
	SkillCtx           ContextKey = "skill"
	DevelopmentPlanCtx ContextKey = "developmentPlan"
)
