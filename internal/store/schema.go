package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table and column definitions, migrated by ent's schema differ on Open.
// Dates are stored as YYYY-MM-DD text and timestamps as RFC 3339 text.
var (
	PlansColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "user_id", Type: field.TypeInt64},
		{Name: "name", Type: field.TypeString},
		{Name: "exam_date", Type: field.TypeString},
		{Name: "daily_hours", Type: field.TypeFloat64},
		{Name: "days_per_week", Type: field.TypeInt, Default: 5},
		{Name: "questions_per_day", Type: field.TypeInt, Default: 0},
		{Name: "questions_per_week", Type: field.TypeInt, Default: 0},
		{Name: "postponements", Type: field.TypeInt, Default: 0},
		{Name: "created_at", Type: field.TypeString},
	}
	PlansTable = &schema.Table{
		Name:       "plans",
		Columns:    PlansColumns,
		PrimaryKey: []*schema.Column{PlansColumns[0]},
		Indexes: []*schema.Index{
			{Name: "plan_user_id", Columns: []*schema.Column{PlansColumns[1]}},
		},
	}

	SubjectsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "plan_id", Type: field.TypeInt64},
		{Name: "name", Type: field.TypeString},
		{Name: "weight", Type: field.TypeFloat64, Default: 1},
	}
	SubjectsTable = &schema.Table{
		Name:       "subjects",
		Columns:    SubjectsColumns,
		PrimaryKey: []*schema.Column{SubjectsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "subjects_plans_subjects",
				Columns:    []*schema.Column{SubjectsColumns[1]},
				RefColumns: []*schema.Column{PlansColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	TopicsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "plan_id", Type: field.TypeInt64},
		{Name: "subject_id", Type: field.TypeInt64},
		{Name: "name", Type: field.TypeString},
		{Name: "difficulty", Type: field.TypeInt, Default: 0},
		{Name: "question_count", Type: field.TypeInt, Default: 0},
	}
	TopicsTable = &schema.Table{
		Name:       "topics",
		Columns:    TopicsColumns,
		PrimaryKey: []*schema.Column{TopicsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "topics_subjects_topics",
				Columns:    []*schema.Column{TopicsColumns[2]},
				RefColumns: []*schema.Column{SubjectsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "topic_plan_id", Columns: []*schema.Column{TopicsColumns[1]}},
		},
	}

	SessionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "plan_id", Type: field.TypeInt64},
		{Name: "topic_id", Type: field.TypeInt64, Nullable: true},
		{Name: "subject", Type: field.TypeString},
		{Name: "date", Type: field.TypeString},
		{Name: "kind", Type: field.TypeString},
		{Name: "status", Type: field.TypeString},
		{Name: "duration_minutes", Type: field.TypeInt},
		{Name: "priority", Type: field.TypeFloat64},
		{Name: "postponements", Type: field.TypeInt, Default: 0},
		{Name: "postpone_reason", Type: field.TypeString, Default: ""},
		{Name: "time_studied_seconds", Type: field.TypeInt, Default: 0},
		{Name: "questions_solved", Type: field.TypeInt, Default: 0},
		{Name: "questions_correct", Type: field.TypeInt, Default: 0},
		{Name: "confidence", Type: field.TypeInt, Default: 0},
		{Name: "difficulty_rating", Type: field.TypeInt, Default: 0},
		{Name: "completed_at", Type: field.TypeString, Nullable: true},
		{Name: "reviews_scheduled", Type: field.TypeBool, Default: false},
	}
	SessionsTable = &schema.Table{
		Name:       "sessions",
		Columns:    SessionsColumns,
		PrimaryKey: []*schema.Column{SessionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "sessions_plans_sessions",
				Columns:    []*schema.Column{SessionsColumns[1]},
				RefColumns: []*schema.Column{PlansColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "sessions_topics_sessions",
				Columns:    []*schema.Column{SessionsColumns[2]},
				RefColumns: []*schema.Column{TopicsColumns[0]},
				OnDelete:   schema.SetNull,
			},
		},
		Indexes: []*schema.Index{
			{Name: "session_plan_id_date", Columns: []*schema.Column{SessionsColumns[1], SessionsColumns[4]}},
			{Name: "session_plan_id_status", Columns: []*schema.Column{SessionsColumns[1], SessionsColumns[6]}},
		},
	}

	PlanEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeString},
		{Name: "plan_id", Type: field.TypeInt64},
		{Name: "action", Type: field.TypeString},
		{Name: "detail", Type: field.TypeString, Default: ""},
	}
	PlanEventsTable = &schema.Table{
		Name:       "plan_events",
		Columns:    PlanEventsColumns,
		PrimaryKey: []*schema.Column{PlanEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "planevent_plan_id_sequence", Columns: []*schema.Column{PlanEventsColumns[3], PlanEventsColumns[1]}},
		},
	}

	ExclusionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt64, Increment: true},
		{Name: "plan_id", Type: field.TypeInt64},
		{Name: "topic_id", Type: field.TypeInt64},
		{Name: "subject_id", Type: field.TypeInt64},
		{Name: "priority", Type: field.TypeFloat64},
		{Name: "reason", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeString},
	}
	ExclusionsTable = &schema.Table{
		Name:       "exclusions",
		Columns:    ExclusionsColumns,
		PrimaryKey: []*schema.Column{ExclusionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "exclusions_plans_exclusions",
				Columns:    []*schema.Column{ExclusionsColumns[1]},
				RefColumns: []*schema.Column{PlansColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "exclusions_topics_exclusions",
				Columns:    []*schema.Column{ExclusionsColumns[2]},
				RefColumns: []*schema.Column{TopicsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "exclusion_plan_id", Columns: []*schema.Column{ExclusionsColumns[1]}},
		},
	}

	// Tables lists every table in dependency order.
	Tables = []*schema.Table{
		PlansTable,
		SubjectsTable,
		TopicsTable,
		SessionsTable,
		PlanEventsTable,
		ExclusionsTable,
	}
)

func init() {
	SubjectsTable.ForeignKeys[0].RefTable = PlansTable
	TopicsTable.ForeignKeys[0].RefTable = SubjectsTable
	SessionsTable.ForeignKeys[0].RefTable = PlansTable
	SessionsTable.ForeignKeys[1].RefTable = TopicsTable
	ExclusionsTable.ForeignKeys[0].RefTable = PlansTable
	ExclusionsTable.ForeignKeys[1].RefTable = TopicsTable
}
