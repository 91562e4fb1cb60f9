package main

import (
	"bufio"
	"errors"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"quizdesk/internal/config"
	"quizdesk/internal/database"
	"quizdesk/internal/models"
	"quizdesk/internal/repository"
	"quizdesk/internal/security"
	"quizdesk/internal/service"
	"quizdesk/internal/validation"
)

const recentAttemptsShown = 5

// app wires the services to the terminal loop
type app struct {
	cfg         *config.Config
	authService *service.AuthService
	quizService *service.QuizService
	questions   *service.QuestionService
	reader      *bufio.Reader

	user    *models.User
	session *models.Session
}

func main() {
	cfg := config.Load()

	db, err := database.OpenWithConfig(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	attemptRepo := repository.NewAttemptRepository(db)

	// Initialize services
	limiter := security.NewLoginLimiter(5, 15*time.Minute)
	authService := service.NewAuthService(userRepo, limiter, cfg.SessionDuration)
	quizService := service.NewQuizService(questionRepo, attemptRepo)
	questionService := service.NewQuestionService(categoryRepo, questionRepo)

	if err := questionService.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed default categories: %v", err)
	}

	if err := authService.CleanupExpiredSessions(); err != nil {
		log.Printf("Warning: Failed to clean up expired sessions: %v", err)
	}

	a := &app{
		cfg:         cfg,
		authService: authService,
		quizService: quizService,
		questions:   questionService,
		reader:      bufio.NewReader(os.Stdin),
	}
	a.run()
}

func (a *app) run() {
	fmt.Println("=== QuizDesk ===")

	for {
		if a.user == nil {
			if !a.welcomeMenu() {
				return
			}
			continue
		}
		if !a.mainMenu() {
			return
		}
	}
}

// welcomeMenu handles login and registration. Returns false to exit.
func (a *app) welcomeMenu() bool {
	fmt.Println()
	fmt.Println("1) Log in")
	fmt.Println("2) Register")
	fmt.Println("q) Quit")

	switch a.prompt("> ") {
	case "1":
		a.login()
	case "2":
		a.register()
	case "q", "Q":
		return false
	}
	return true
}

func (a *app) login() {
	username := a.prompt("Username: ")
	password := a.prompt("Password: ")

	session, user, err := a.authService.Login(username, password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTooManyAttempts):
			fmt.Println("Too many failed attempts. Please wait and try again.")
		case errors.Is(err, service.ErrInvalidCredentials):
			fmt.Println("Invalid username or password.")
		default:
			fmt.Printf("Login failed: %v\n", err)
		}
		return
	}

	a.user = user
	a.session = session
	fmt.Printf("Welcome back, %s!\n", user.Username)
}

func (a *app) register() {
	username := a.prompt("Choose a username: ")
	password := a.prompt("Choose a password: ")

	user, err := a.authService.Register(username, password)
	if err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.Is(err, service.ErrUsernameTaken):
			fmt.Println("That username is already taken.")
		case errors.As(err, &vErr):
			fmt.Println(vErr.Message)
		default:
			fmt.Printf("Registration failed: %v\n", err)
		}
		return
	}

	fmt.Printf("Account created for %s. Please log in.\n", user.Username)
}

// mainMenu is the signed-in dashboard loop. Returns false to exit.
func (a *app) mainMenu() bool {
	fmt.Println()
	a.showDashboard()

	fmt.Println("1) Take a quiz")
	fmt.Println("2) Review a recent quiz")
	fmt.Println("3) Change password")
	if a.user.IsAdmin {
		fmt.Println("4) Manage questions")
	}
	fmt.Println("l) Log out")
	fmt.Println("q) Quit")

	switch a.prompt("> ") {
	case "1":
		a.takeQuiz()
	case "2":
		a.reviewAttempt()
	case "3":
		a.changePassword()
	case "4":
		if a.user.IsAdmin {
			a.manageQuestions()
		}
	case "l", "L":
		a.logout()
	case "q", "Q":
		a.logout()
		return false
	}
	return true
}

func (a *app) showDashboard() {
	stats, err := a.quizService.Stats(a.user.ID)
	if err != nil {
		log.Printf("Failed to load stats for user %d: %v", a.user.ID, err)
	} else if stats.TotalAttempts > 0 {
		fmt.Printf("Attempts: %d  Best: %d%%  Last: %d%%\n",
			stats.TotalAttempts, stats.BestPercent, stats.LastPercent)
	}

	recent, err := a.quizService.RecentAttempts(a.user.ID, recentAttemptsShown)
	if err != nil {
		log.Printf("Failed to load recent attempts for user %d: %v", a.user.ID, err)
		return
	}
	if len(recent) > 0 {
		fmt.Println("Recent quizzes:")
		for _, attempt := range recent {
			fmt.Printf("  %s  %d/%d correct  (%s)\n",
				attempt.CategoryName, attempt.CorrectCount, attempt.TotalQuestions,
				attempt.CreatedAt.Format("2006-01-02 15:04"))
		}
	}
}

func (a *app) takeQuiz() {
	category := a.chooseCategory()
	if category == nil {
		return
	}

	questions, err := a.quizService.StartQuiz(category.ID, a.cfg.QuizQuestionLimit)
	if err != nil {
		fmt.Printf("Could not start quiz: %v\n", err)
		return
	}
	if len(questions) == 0 {
		fmt.Println("No questions in this category yet.")
		return
	}

	fmt.Printf("\n%s: %d questions. Answer A-D, or press Enter to skip.\n", category.Name, len(questions))

	selections := make(map[int64]string, len(questions))
	for i, q := range questions {
		fmt.Printf("\n%d. %s\n", i+1, q.Text)
		for _, letter := range models.Letters {
			fmt.Printf("   %s) %s\n", letter, q.Option(letter))
		}
		answer := a.prompt("Your answer: ")
		if strings.TrimSpace(answer) != "" {
			selections[q.ID] = answer
		}
	}

	scored := a.quizService.Score(questions, selections)
	a.showResults(scored)

	attemptID, err := a.quizService.RecordAttempt(a.user.ID, category.ID, scored)
	if err != nil {
		// The score above stands regardless of whether it was saved.
		if errors.Is(err, service.ErrRecordingFailed) {
			fmt.Println("Warning: this attempt could not be saved to your history.")
			log.Printf("Recording attempt failed: %v", err)
		}
		return
	}
	log.Printf("Recorded attempt %d for user %d", attemptID, a.user.ID)
}

func (a *app) showResults(scored models.ScoredAttempt) {
	fmt.Printf("\nScore: %d/%d correct (%d%%), %d answered\n",
		scored.CorrectCount, scored.TotalQuestions, scored.Percentage(), scored.AnsweredCount)

	for i, entry := range scored.Breakdown {
		switch {
		case entry.SelectedLetter == nil:
			fmt.Printf("  %d. skipped (correct: %s)\n", i+1, entry.CorrectLetter)
		case entry.IsCorrect:
			fmt.Printf("  %d. %s correct\n", i+1, *entry.SelectedLetter)
		default:
			fmt.Printf("  %d. %s wrong (correct: %s)\n", i+1, *entry.SelectedLetter, entry.CorrectLetter)
		}
	}
}

// reviewAttempt replays the persisted per-question rows of a past attempt
func (a *app) reviewAttempt() {
	recent, err := a.quizService.RecentAttempts(a.user.ID, recentAttemptsShown)
	if err != nil {
		fmt.Printf("Could not load recent attempts: %v\n", err)
		return
	}
	if len(recent) == 0 {
		fmt.Println("No quizzes taken yet.")
		return
	}

	fmt.Println("\nRecent quizzes:")
	for i, attempt := range recent {
		fmt.Printf("  %d) %s  %d/%d correct  (%s)\n",
			i+1, attempt.CategoryName, attempt.CorrectCount, attempt.TotalQuestions,
			attempt.CreatedAt.Format("2006-01-02 15:04"))
	}

	choice, err := strconv.Atoi(a.prompt("Quiz: "))
	if err != nil || choice < 1 || choice > len(recent) {
		fmt.Println("Invalid choice.")
		return
	}
	attempt := recent[choice-1]

	answers, err := a.quizService.AttemptAnswers(attempt.ID)
	if err != nil {
		fmt.Printf("Could not load attempt detail: %v\n", err)
		return
	}

	fmt.Printf("\n%s: %d/%d correct\n", attempt.CategoryName, attempt.CorrectCount, attempt.TotalQuestions)
	for i, answer := range answers {
		question, err := a.questions.GetQuestion(answer.QuestionID)
		text := fmt.Sprintf("question #%d", answer.QuestionID)
		if err == nil {
			text = question.Text
		}

		switch {
		case answer.SelectedLetter == nil:
			fmt.Printf("  %d. %s\n     skipped (correct: %s)\n", i+1, text, answer.CorrectLetter)
		case answer.IsCorrect:
			fmt.Printf("  %d. %s\n     %s correct\n", i+1, text, *answer.SelectedLetter)
		default:
			fmt.Printf("  %d. %s\n     %s wrong (correct: %s)\n", i+1, text, *answer.SelectedLetter, answer.CorrectLetter)
		}
	}
}

func (a *app) chooseCategory() *models.Category {
	categories, err := a.questions.ListCategories()
	if err != nil {
		fmt.Printf("Could not load categories: %v\n", err)
		return nil
	}
	if len(categories) == 0 {
		fmt.Println("No categories available.")
		return nil
	}

	fmt.Println("\nCategories:")
	for i, c := range categories {
		count, err := a.questions.CountQuestions(c.ID)
		if err != nil {
			count = 0
		}
		fmt.Printf("  %d) %s (%d questions)\n", i+1, c.Name, count)
	}

	choice, err := strconv.Atoi(a.prompt("Category: "))
	if err != nil || choice < 1 || choice > len(categories) {
		fmt.Println("Invalid choice.")
		return nil
	}
	return &categories[choice-1]
}

func (a *app) changePassword() {
	current := a.prompt("Current password: ")
	updated := a.prompt("New password: ")

	if err := a.authService.ChangePassword(a.user.ID, current, updated); err != nil {
		var vErr validation.ValidationError
		switch {
		case errors.Is(err, service.ErrInvalidCredentials):
			fmt.Println("Current password is incorrect.")
		case errors.As(err, &vErr):
			fmt.Println(vErr.Message)
		default:
			fmt.Printf("Could not change password: %v\n", err)
		}
		return
	}
	fmt.Println("Password updated.")
}

func (a *app) manageQuestions() {
	for {
		fmt.Println()
		fmt.Println("1) List questions")
		fmt.Println("2) Add question")
		fmt.Println("3) Edit question")
		fmt.Println("4) Delete question")
		fmt.Println("5) Add category")
		fmt.Println("6) Delete category")
		fmt.Println("b) Back")

		switch a.prompt("> ") {
		case "1":
			a.listQuestions()
		case "2":
			a.addQuestion()
		case "3":
			a.editQuestion()
		case "4":
			a.deleteQuestion()
		case "5":
			a.addCategory()
		case "6":
			a.deleteCategory()
		case "b", "B":
			return
		}
	}
}

func (a *app) listQuestions() {
	summaries, err := a.questions.ListQuestions(50)
	if err != nil {
		fmt.Printf("Could not list questions: %v\n", err)
		return
	}
	for _, s := range summaries {
		fmt.Printf("  #%d [%s] %s\n", s.ID, s.CategoryName, s.Text)
	}
	if len(summaries) == 0 {
		fmt.Println("  (no questions)")
	}
}

func (a *app) addQuestion() {
	category := a.chooseCategory()
	if category == nil {
		return
	}

	q := &models.Question{
		CategoryID:    category.ID,
		Text:          a.prompt("Question text: "),
		OptionA:       a.prompt("Option A: "),
		OptionB:       a.prompt("Option B: "),
		OptionC:       a.prompt("Option C: "),
		OptionD:       a.prompt("Option D: "),
		CorrectLetter: a.prompt("Correct letter (A-D): "),
	}

	id, err := a.questions.CreateQuestion(q)
	if err != nil {
		var vErr validation.ValidationError
		if errors.As(err, &vErr) {
			fmt.Println(vErr.Message)
		} else {
			fmt.Printf("Could not add question: %v\n", err)
		}
		return
	}
	fmt.Printf("Added question #%d.\n", id)
}

// editQuestion re-prompts every field; Enter keeps the current value
func (a *app) editQuestion() {
	id, err := strconv.ParseInt(a.prompt("Question id: "), 10, 64)
	if err != nil {
		fmt.Println("Invalid id.")
		return
	}

	q, err := a.questions.GetQuestion(id)
	if err != nil {
		if errors.Is(err, service.ErrQuestionNotFound) {
			fmt.Println("No such question.")
		} else {
			fmt.Printf("Could not load question: %v\n", err)
		}
		return
	}

	q.Text = a.promptDefault("Question text", q.Text)
	q.OptionA = a.promptDefault("Option A", q.OptionA)
	q.OptionB = a.promptDefault("Option B", q.OptionB)
	q.OptionC = a.promptDefault("Option C", q.OptionC)
	q.OptionD = a.promptDefault("Option D", q.OptionD)
	q.CorrectLetter = a.promptDefault("Correct letter (A-D)", q.CorrectLetter)

	if err := a.questions.UpdateQuestion(q); err != nil {
		var vErr validation.ValidationError
		if errors.As(err, &vErr) {
			fmt.Println(vErr.Message)
		} else {
			fmt.Printf("Could not update question: %v\n", err)
		}
		return
	}
	fmt.Printf("Updated question #%d.\n", q.ID)
}

func (a *app) deleteQuestion() {
	id, err := strconv.ParseInt(a.prompt("Question id: "), 10, 64)
	if err != nil {
		fmt.Println("Invalid id.")
		return
	}
	if err := a.questions.DeleteQuestion(id); err != nil {
		fmt.Printf("Could not delete question: %v\n", err)
		return
	}
	fmt.Println("Deleted.")
}

func (a *app) addCategory() {
	name := a.prompt("Category name: ")
	description := a.prompt("Description: ")

	category, err := a.questions.CreateCategory(name, description)
	if err != nil {
		var vErr validation.ValidationError
		if errors.As(err, &vErr) {
			fmt.Println(vErr.Message)
		} else {
			fmt.Printf("Could not add category: %v\n", err)
		}
		return
	}
	fmt.Printf("Category '%s' ready.\n", category.Name)
}

func (a *app) deleteCategory() {
	category := a.chooseCategory()
	if category == nil {
		return
	}
	if err := a.questions.DeleteCategory(category.ID); err != nil {
		if errors.Is(err, service.ErrCategoryInUse) {
			fmt.Println("Delete its questions first.")
		} else {
			fmt.Printf("Could not delete category: %v\n", err)
		}
		return
	}
	fmt.Println("Deleted.")
}

func (a *app) logout() {
	if a.session != nil {
		if err := a.authService.Logout(a.session.ID); err != nil {
			log.Printf("Failed to end session: %v", err)
		}
	}
	a.user = nil
	a.session = nil
	fmt.Println("Logged out.")
}

func (a *app) promptDefault(label, current string) string {
	answer := a.prompt(fmt.Sprintf("%s [%s]: ", label, current))
	if answer == "" {
		return current
	}
	return answer
}

func (a *app) prompt(label string) string {
	fmt.Print(label)
	line, err := a.reader.ReadString('\n')
	if err != nil {
		return ""
	}
	return strings.TrimSpace(line)
}
