package models

import "time"

// Student is an enrollment profile linking a user to one section of a
// course. Created by a successful enroll, destroyed by a successful drop.
type Student struct {
	ID        string    `db:"id" json:"id"`
	UserID    string    `db:"user_id" json:"user_id"`
	SectionID string    `db:"section_id" json:"section_id"`
	CourseID  string    `db:"course_id" json:"course_id"`
	JoinedAt  time.Time `db:"joined_at" json:"joined_at"`
}

// StudentDetail enriches the profile with user identity for rosters.
type StudentDetail struct {
	Student
	FullName string `db:"full_name" json:"full_name"`
	Email    string `db:"email" json:"email"`
}

// ProfileRole distinguishes the two kinds of scheduler profiles.
type ProfileRole string

const (
	ProfileStudent ProfileRole = "student"
	ProfileMentor  ProfileRole = "mentor"
)

// Profile is one row of GET /scheduler/profiles/: the caller's relationship
// to a section, either as an enrolled student or as its mentor.
type Profile struct {
	ID         string      `db:"id" json:"id"`
	Role       ProfileRole `db:"role" json:"role"`
	CourseID   string      `db:"course_id" json:"course_id"`
	CourseName string      `db:"course_name" json:"course_name"`
	SectionID  string      `db:"section_id" json:"section_id"`
}

// Mentor leads a single section.
type Mentor struct {
	ID        string `db:"id" json:"id"`
	UserID    string `db:"user_id" json:"user_id"`
	SectionID string `db:"section_id" json:"section_id"`
}
