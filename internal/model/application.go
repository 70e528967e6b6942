package model

// Application is the read-only view of a scholarship application supplied
// by the application-tracking service. This core never mutates it.
type Application struct {
	ID                int64  `json:"id"`
	StudentName       string `json:"student_name"`
	CategoryID        int64  `json:"category_id"`
	Status            string `json:"status"`
	InterviewEligible bool   `json:"interview_eligible"`
}

// CanProceedToInterview reports whether the application may be scheduled
// for an interview. The predicate itself is owned by the tracking service.
func (a *Application) CanProceedToInterview() bool {
	return a != nil && a.InterviewEligible
}

// Category returns the classification used by interview-type policy.
func (a *Application) Category() int64 {
	if a == nil {
		return 0
	}
	return a.CategoryID
}

// Interviewer is a static roster entry. The roster comes from
// configuration; this core never creates or updates interviewers.
type Interviewer struct {
	ID    string `yaml:"id" json:"id"`
	Name  string `yaml:"name" json:"name"`
	Email string `yaml:"email" json:"email"`
}
