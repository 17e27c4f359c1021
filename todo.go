/*
	Project: EduPlatform - school management from the terminal
	Target: primary & secondary schools (one school per session)
*/
package eduplatform

/*
TODO: persist the directory between sessions (storage/database only has the in-memory tables)
TODO: cascade account removal to assignments & lessons (they keep the stale teacher ID, views show "Unknown")
TODO: import users from the CSV export (same columns as <prefix>_users.csv)
*/
