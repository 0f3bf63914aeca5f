package dtos

// Form bindings for the server-rendered views. Field names follow the
// backend payloads so a re-rendered form keeps what the user typed.

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type RegisterForm struct {
	Username  string `form:"username" binding:"required"`
	FirstName string `form:"first_name" binding:"required"`
	LastName  string `form:"last_name" binding:"required"`
	Email     string `form:"email" binding:"required,email"`
	Password  string `form:"password" binding:"required"`
	Confirm   string `form:"confirm" binding:"required"`
	Role      string `form:"user_type" binding:"required,oneof=job_seeker recruiter"`
	UCID      string `form:"ucid"`
}

type JobForm struct {
	Title       string `form:"title" json:"title" binding:"required"`
	Description string `form:"description" json:"description" binding:"required"`
	Location    string `form:"location" json:"location" binding:"required"`
}

type AssistForm struct {
	RawText string `form:"raw_text" binding:"required"`
}

type AccountForm struct {
	Bio string `form:"bio"`
}

type ApplyForm struct {
	Phone       string `form:"phone" binding:"required"`
	CoverLetter string `form:"cover_letter"`
}
