package db

import (
	"database/sql"
	"fmt"
)

const Schema = `
-- Create users table
CREATE TABLE IF NOT EXISTS users (
    id SERIAL PRIMARY KEY,
    name VARCHAR(100) NOT NULL,
    email VARCHAR(255) UNIQUE NOT NULL,
    password_hash VARCHAR(255) NOT NULL,
    role VARCHAR(20) NOT NULL,
    avatar VARCHAR(255),
    created_at TIMESTAMP NOT NULL
);

-- Create refresh_tokens table
CREATE TABLE IF NOT EXISTS refresh_tokens (
    id SERIAL PRIMARY KEY,
    user_id INTEGER NOT NULL,
    token VARCHAR(255) UNIQUE NOT NULL,
    expires_at TIMESTAMP NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (user_id) REFERENCES users(id)
);

-- Create classes table
CREATE TABLE IF NOT EXISTS classes (
    id SERIAL PRIMARY KEY,
    name VARCHAR(255) NOT NULL,
    description TEXT NOT NULL,
    teacher_id INTEGER NOT NULL,
    schedule VARCHAR(255) NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (teacher_id) REFERENCES users(id)
);

-- Create class_students roster table
CREATE TABLE IF NOT EXISTS class_students (
    id SERIAL PRIMARY KEY,
    class_id INTEGER NOT NULL,
    student_id INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (class_id) REFERENCES classes(id),
    FOREIGN KEY (student_id) REFERENCES users(id),
    UNIQUE(class_id, student_id)
);

-- Create lessons table
CREATE TABLE IF NOT EXISTS lessons (
    id SERIAL PRIMARY KEY,
    class_id INTEGER NOT NULL,
    date DATE NOT NULL,
    start_time VARCHAR(5) NOT NULL,
    end_time VARCHAR(5) NOT NULL,
    status VARCHAR(20) NOT NULL,
    lesson_type VARCHAR(20) NOT NULL,
    location VARCHAR(255),
    memo TEXT,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (class_id) REFERENCES classes(id)
);

-- Create attendances table; one row per (lesson, student)
CREATE TABLE IF NOT EXISTS attendances (
    id SERIAL PRIMARY KEY,
    lesson_id INTEGER NOT NULL,
    student_id INTEGER NOT NULL,
    status VARCHAR(20) NOT NULL,
    note TEXT,
    marked_by INTEGER NOT NULL,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (lesson_id) REFERENCES lessons(id),
    FOREIGN KEY (student_id) REFERENCES users(id),
    FOREIGN KEY (marked_by) REFERENCES users(id),
    UNIQUE(lesson_id, student_id)
);

-- Create lesson_journals table
CREATE TABLE IF NOT EXISTS lesson_journals (
    id SERIAL PRIMARY KEY,
    lesson_id INTEGER NOT NULL,
    author_id INTEGER NOT NULL,
    journal_type VARCHAR(20) NOT NULL,
    content TEXT NOT NULL,
    objectives TEXT,
    next_plan TEXT,
    ai_feedback TEXT,
    created_at TIMESTAMP NOT NULL,
    updated_at TIMESTAMP NOT NULL,
    FOREIGN KEY (lesson_id) REFERENCES lessons(id),
    FOREIGN KEY (author_id) REFERENCES users(id)
);

-- Create evaluations table
CREATE TABLE IF NOT EXISTS evaluations (
    id SERIAL PRIMARY KEY,
    student_id INTEGER NOT NULL,
    evaluator_id INTEGER NOT NULL,
    class_id INTEGER NOT NULL,
    period VARCHAR(50) NOT NULL,
    acting_skill INTEGER NOT NULL,
    expressiveness INTEGER NOT NULL,
    teamwork INTEGER NOT NULL,
    effort INTEGER NOT NULL,
    attendance_score INTEGER NOT NULL,
    comment TEXT,
    ai_summary TEXT,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (student_id) REFERENCES users(id),
    FOREIGN KEY (evaluator_id) REFERENCES users(id),
    FOREIGN KEY (class_id) REFERENCES classes(id)
);

-- Create notices table
CREATE TABLE IF NOT EXISTS notices (
    id SERIAL PRIMARY KEY,
    author_id INTEGER NOT NULL,
    title VARCHAR(255) NOT NULL,
    content TEXT NOT NULL,
    pinned BOOLEAN NOT NULL DEFAULT FALSE,
    created_at TIMESTAMP NOT NULL,
    FOREIGN KEY (author_id) REFERENCES users(id)
);
`

// InitSchema initializes the database schema. Dependent rows (attendances,
// journals) are removed by explicit deletes in the handlers, so no ON DELETE
// CASCADE here.
func InitSchema(db *sql.DB) error {
	_, err := db.Exec(Schema)
	if err != nil {
		return fmt.Errorf("error initializing database schema: %w", err)
	}
	return nil
}
