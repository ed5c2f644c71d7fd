package database

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	// Load env
	_ "github.com/joho/godotenv/autoload"

	m "genai-hiring-backend/internal/model"
	"genai-hiring-backend/internal/utilities"
)

var testDBInstance *DBinstanceStruct
var teardown func(context.Context, ...testcontainers.TerminateOption) error

// Exported test users, companies, jobs and applications
var (
	TestAdminUser    m.User
	TestHRUser       m.User
	TestManagerUser  m.User
	TestManagerUser2 m.User
	TestCompany      m.Company
	TestCompany2     m.Company

	// Add exported plain password
	TestSeedPassword = "SeedPass123!"

	// Exported seeded jobs, one per workflow stage
	TestJobDraft     m.Job
	TestJobPending   m.Job
	TestJobApproved  m.Job
	TestJobPublished m.Job

	// Exported seeded application against the published job
	TestApplicationPending m.Application
)

// GetTestDB starts a PostgreSQL test container and returns a teardown function,
// the DB instance, and any error encountered during setup.
func GetTestDB() (func(context.Context, ...testcontainers.TerminateOption) error, *DBinstanceStruct, error) {

	if testDBInstance != nil && teardown != nil {
		return teardown, testDBInstance, nil
	}

	// Database configuration
	var (
		dbName = "database"
		dbPwd  = "password"
		dbUser = "user"
	)

	dbContainer, err := postgres.Run(
		context.Background(),
		"postgres:latest",
		postgres.WithDatabase(dbName),
		postgres.WithUsername(dbUser),
		postgres.WithPassword(dbPwd),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(5*time.Second)),
	)
	if err != nil {
		return nil, nil, err
	}

	dbHost, err := dbContainer.Host(context.Background())
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	dbPort, err := dbContainer.MappedPort(context.Background(), nat.Port("5432/tcp"))
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	config := &DBConfig{
		useConstr: true,
		Constr:    fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable", dbHost, dbPort.Port(), dbUser, dbPwd, dbName),
	}

	db, err := NewDBInstance(config)
	if err != nil {
		return dbContainer.Terminate, nil, err
	}

	// Seed users for every role plus jobs covering the whole workflow
	if err := seedTestData(db); err != nil {
		_ = dbContainer.Terminate(context.Background())
		return nil, nil, err
	}

	testDBInstance = db
	teardown = dbContainer.Terminate

	return dbContainer.Terminate, db, nil
}

// seedTestData inserts one user per role, two companies, a job in every
// workflow status and one pending application if the database is empty.
func seedTestData(db *DBinstanceStruct) error {
	var userCount int64
	if err := db.Model(&m.User{}).Count(&userCount).Error; err != nil {
		return err
	}
	if userCount > 0 {
		return loadTestData(db)
	}

	// Default company got created during NewDBInstance
	if err := db.First(&TestCompany).Error; err != nil {
		return err
	}
	TestCompany2 = m.Company{
		EditableCompanyInfo: m.EditableCompanyInfo{
			Name:        "Orbit Analytics",
			Description: "Workforce analytics consulting",
			Industry:    "Consulting",
			Website:     "https://orbit.example.com",
		},
		IsActive: true,
	}
	if err := db.Create(&TestCompany2).Error; err != nil {
		return err
	}

	// Pre-hash shared password for all seeded users
	hashedPwd, errHash := utilities.HashPassword(TestSeedPassword)
	if errHash != nil {
		return errHash
	}

	userSpecs := []struct {
		email    string
		fullName string
		role     string
	}{
		{"admin@example.com", "Ada Admin", m.RoleAdmin},
		{"hr@example.com", "Harper Reyes", m.RoleHR},
		{"manager1@example.com", "Mina Chai", m.RoleAccountManager},
		{"manager2@example.com", "Marco Lund", m.RoleAccountManager},
	}

	users := make([]m.User, 0, len(userSpecs))
	for _, s := range userSpecs {
		users = append(users, m.User{
			ID:        uuid.New(),
			Email:     s.email,
			FullName:  s.fullName,
			Password:  hashedPwd,
			Role:      s.role,
			IsActive:  true,
			CompanyID: &TestCompany.ID,
		})
	}
	if err := db.Create(&users).Error; err != nil {
		return err
	}
	assignTestUsers(users)

	// Seed one job per workflow status so transition tests never have
	// to build their own preconditions.
	now := time.Now()
	deadline := now.AddDate(0, 1, 0)
	minA, maxA := 60000, 90000
	minB, maxB := 80000, 120000

	TestJobDraft = m.Job{
		EditableJobInfo: m.EditableJobInfo{
			Title:            "Backend Engineer",
			Description:      "Design and maintain Go services backing the hiring pipeline.",
			ShortDescription: "Go services for the hiring pipeline.",
			Department:       "Engineering",
			Location:         "Bangkok (Hybrid)",
			JobType:          "full-time",
			ExperienceLevel:  "mid",
			SalaryMin:        &minA,
			SalaryMax:        &maxA,
			KeySkills:        pq.StringArray{"Go", "PostgreSQL", "REST"},
			Deadline:         &deadline,
		},
		Status:    m.JobStatusDraft,
		CompanyID: TestCompany.ID,
		CreatedBy: TestManagerUser.ID,
	}
	TestJobPending = m.Job{
		EditableJobInfo: m.EditableJobInfo{
			Title:            "Data Engineer",
			Description:      "Build ingestion pipelines feeding the candidate scoring system.",
			ShortDescription: "Pipelines for candidate scoring.",
			Department:       "Data",
			Location:         "Remote",
			JobType:          "full-time",
			ExperienceLevel:  "senior",
			SalaryMin:        &minB,
			SalaryMax:        &maxB,
			KeySkills:        pq.StringArray{"Python", "SQL", "Airflow"},
			Deadline:         &deadline,
		},
		Status:    m.JobStatusPendingApproval,
		CompanyID: TestCompany.ID,
		CreatedBy: TestManagerUser.ID,
	}
	approvedAt := now.Add(-48 * time.Hour)
	TestJobApproved = m.Job{
		EditableJobInfo: m.EditableJobInfo{
			Title:            "Product Designer",
			Description:      "Own the recruiter-facing review surfaces end to end.",
			ShortDescription: "Recruiter-facing design.",
			Department:       "Design",
			Location:         "Chiang Mai (On-site)",
			JobType:          "contract",
			ExperienceLevel:  "mid",
			KeySkills:        pq.StringArray{"Figma", "Prototyping"},
		},
		Status:     m.JobStatusApproved,
		CompanyID:  TestCompany.ID,
		CreatedBy:  TestManagerUser2.ID,
		ApprovedBy: &TestHRUser.ID,
		ApprovedAt: &approvedAt,
	}
	publishedAt := now.Add(-24 * time.Hour)
	TestJobPublished = m.Job{
		EditableJobInfo: m.EditableJobInfo{
			Title:            "Frontend Developer",
			Description:      "Ship the public careers page and the application form.",
			ShortDescription: "Careers page and application form.",
			Department:       "Engineering",
			Location:         "Remote",
			JobType:          "full-time",
			ExperienceLevel:  "junior",
			KeySkills:        pq.StringArray{"TypeScript", "React"},
			Deadline:         &deadline,
		},
		Status:      m.JobStatusPublished,
		CompanyID:   TestCompany.ID,
		CreatedBy:   TestManagerUser2.ID,
		ApprovedBy:  &TestHRUser.ID,
		ApprovedAt:  &approvedAt,
		PublishedAt: &publishedAt,
	}

	jobs := []*m.Job{&TestJobDraft, &TestJobPending, &TestJobApproved, &TestJobPublished}
	for _, j := range jobs {
		if err := db.Create(j).Error; err != nil {
			return err
		}
	}

	// One resume file plus one pending application against the published job
	resume := m.File{
		Content:   []byte("%PDF-1.4 seeded resume"),
		Extension: ".pdf",
	}
	if err := db.Create(&resume).Error; err != nil {
		return err
	}

	score := 72
	TestApplicationPending = m.Application{
		ReferenceNumber: "REF-" + strings.ToUpper(uuid.NewString()[:8]),
		CandidateName:   "Casey Tran",
		CandidateEmail:  "casey.tran@example.com",
		CoverLetter:     "I have three years of frontend experience.",
		ResumeFilename:  "casey_tran_resume.pdf",
		ResumeID:        &resume.ID,
		JobID:           TestJobPublished.ID,
		Status:          m.ApplicationStatusPending,
		AIScore:         &score,
		SkillsMatch: m.SkillMatchList{
			{Skill: "TypeScript", Match: true},
			{Skill: "React", Match: false},
		},
	}
	if err := db.Create(&TestApplicationPending).Error; err != nil {
		return err
	}

	return nil
}

// loadTestData populates exported variables when records already exist.
func loadTestData(db *DBinstanceStruct) error {
	var users []m.User
	if err := db.Where("email IN ?", []string{
		"admin@example.com", "hr@example.com", "manager1@example.com", "manager2@example.com",
	}).Find(&users).Error; err != nil {
		return err
	}
	assignTestUsers(users)

	if err := db.Order("id ASC").First(&TestCompany).Error; err != nil {
		return err
	}
	_ = db.First(&TestCompany2, "name = ?", "Orbit Analytics").Error

	_ = db.First(&TestJobDraft, "status = ?", m.JobStatusDraft).Error
	_ = db.First(&TestJobPending, "status = ?", m.JobStatusPendingApproval).Error
	_ = db.First(&TestJobApproved, "status = ?", m.JobStatusApproved).Error
	_ = db.First(&TestJobPublished, "status = ?", m.JobStatusPublished).Error

	_ = db.First(&TestApplicationPending, "status = ?", m.ApplicationStatusPending).Error

	return nil
}

func assignTestUsers(users []m.User) {
	for _, u := range users {
		switch u.Email {
		case "admin@example.com":
			TestAdminUser = u
		case "hr@example.com":
			TestHRUser = u
		case "manager1@example.com":
			TestManagerUser = u
		case "manager2@example.com":
			TestManagerUser2 = u
		}
	}
}
