package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"disasterprep/internal/flow"
	"disasterprep/internal/models"
	"disasterprep/internal/notify"
	"disasterprep/internal/roles"
	"disasterprep/internal/service"
)

func cmdLogin(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	username := fs.String("u", "", "Username")
	password := fs.String("p", "", "Password (prompted when omitted)")
	fs.Parse(args)

	if *username == "" {
		name, err := a.prompt("Username: ")
		if err != nil {
			return err
		}
		*username = name
	}
	if *password == "" {
		pw, err := a.prompt("Password: ")
		if err != nil {
			return err
		}
		*password = pw
	}

	user, err := a.sessions.Login(ctx, *username, *password)
	if err != nil {
		return err
	}
	notify.Success(a.notifier, "Welcome back, %s!", user.FullName)
	return nil
}

func cmdLogout(ctx context.Context, a *app, args []string) error {
	if err := a.sessions.Logout(); err != nil {
		return err
	}
	a.tracker.Reset()
	notify.Info(a.notifier, "Logged out successfully")
	return nil
}

func cmdWhoami(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("whoami", flag.ExitOnError)
	remote := fs.Bool("remote", false, "Confirm the session with the server")
	fs.Parse(args)

	user, err := a.currentUser()
	if err != nil {
		return err
	}
	if *remote {
		verified, err := a.sessions.Verify(ctx)
		if err != nil {
			return err
		}
		user = *verified
	}

	printUser(a.out, user)
	if _, info := a.sessions.Token(); info != nil && !info.ExpiresAt.IsZero() {
		fmt.Fprintf(a.out, "Token expires: %s\n", formatTime(info.ExpiresAt))
	}
	return nil
}

func cmdTabs(ctx context.Context, a *app, args []string) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}
	perms := roles.For(user.Role)
	fmt.Fprintf(a.out, "Tabs for %s:\n", user.Role)
	for _, tab := range perms.Tabs {
		fmt.Fprintf(a.out, "  %s\n", tab)
	}
	fmt.Fprintln(a.out, "Actions:")
	for _, action := range perms.Actions {
		fmt.Fprintf(a.out, "  %s\n", action)
	}
	return nil
}

func cmdDashboard(ctx context.Context, a *app, args []string) error {
	user, err := a.currentUser()
	if err != nil {
		return err
	}

	dash := a.dashboard()
	report := dash.Refresh(ctx, user)
	if a.cfg.Debug {
		for _, res := range report.Results {
			a.debugf("fetch %s: err=%v stale=%v", res.Collection, res.Err, res.Stale)
		}
	}
	printDashboard(a.out, user, dash.Snapshot())
	return nil
}

func cmdModules(ctx context.Context, a *app, args []string) error {
	user, err := a.requireAction(roles.ActionWatchModule)
	if err != nil {
		return err
	}

	ctrl := flow.NewController(a.client, a.tracker, a.notifier, user.ID)
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	modules, err := a.client.ListModules(ctx)
	if err != nil {
		return err
	}
	printModules(a.out, modules, a.tracker)
	return nil
}

// findModule loads the module list and returns the module with id
func (a *app) findModule(ctx context.Context, id string) (models.Module, error) {
	modules, err := a.client.ListModules(ctx)
	if err != nil {
		return models.Module{}, err
	}
	for _, m := range modules {
		if m.ID == id {
			return m, nil
		}
	}
	return models.Module{}, fmt.Errorf("module not found: %s", id)
}

func cmdWatch(ctx context.Context, a *app, args []string) error {
	if len(args) != 1 {
		return errors.New("usage: prepctl watch <module-id>")
	}
	user, err := a.requireAction(roles.ActionWatchModule)
	if err != nil {
		return err
	}

	ctrl := flow.NewController(a.client, a.tracker, a.notifier, user.ID)
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}
	module, err := a.findModule(ctx, args[0])
	if err != nil {
		return err
	}
	if err := ctrl.SelectModule(module); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "%s\nVideo: %s (%d min)\n", module.Title, module.VideoURL, module.VideoDuration)
	return ctrl.ReportVideoWatched(ctx, module.ID)
}

func cmdQuiz(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("quiz", flag.ExitOnError)
	answersFlag := fs.String("answers", "", "Comma separated choices, 1-4 per question")
	standalone := fs.Bool("standalone", false, "Treat the argument as a quiz ID rather than a module ID")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return errors.New("usage: prepctl quiz [-answers 1,3,2] [-standalone] <module-id|quiz-id>")
	}
	user, err := a.requireAction(roles.ActionTakeQuiz)
	if err != nil {
		return err
	}

	ctrl := flow.NewController(a.client, a.tracker, a.notifier, user.ID)
	if err := ctrl.Refresh(ctx); err != nil {
		return err
	}

	var quiz *models.Quiz
	if *standalone {
		quizzes, err := a.client.ListQuizzes(ctx)
		if err != nil {
			return err
		}
		for i := range quizzes {
			if quizzes[i].ID == fs.Arg(0) {
				quiz, err = ctrl.StartStandaloneQuiz(quizzes[i])
				if err != nil {
					return err
				}
				break
			}
		}
		if quiz == nil {
			return fmt.Errorf("quiz not found: %s", fs.Arg(0))
		}
	} else {
		module, err := a.findModule(ctx, fs.Arg(0))
		if err != nil {
			return err
		}
		if err := ctrl.SelectModule(module); err != nil {
			return err
		}
		quiz, err = ctrl.StartQuiz(ctx)
		if errors.Is(err, flow.ErrQuizLocked) {
			return fmt.Errorf("watch the video first: prepctl watch %s", module.ID)
		}
		if err != nil {
			return err
		}
	}

	if *answersFlag != "" {
		choices, err := parseAnswers(*answersFlag)
		if err != nil {
			return err
		}
		for i, choice := range choices {
			if err := ctrl.Answer(i, choice); err != nil {
				return err
			}
		}
	} else if err := a.askQuestions(ctrl, *quiz); err != nil {
		ctrl.Cancel()
		return err
	}

	attempt, err := ctrl.Submit(ctx)
	if err != nil {
		return err
	}
	printAttempt(a.out, *quiz, *attempt)
	return nil
}

// askQuestions prompts for each question until a valid choice is given
func (a *app) askQuestions(ctrl *flow.Controller, quiz models.Quiz) error {
	fmt.Fprintf(a.out, "%s (%d questions)\n", quiz.Title, len(quiz.Questions))
	for i, q := range quiz.Questions {
		fmt.Fprintf(a.out, "\n%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(a.out, "   %d) %s\n", j+1, opt)
		}
		for {
			line, err := a.prompt("Answer: ")
			if err != nil {
				return fmt.Errorf("failed to read answer: %w", err)
			}
			n, err := strconv.Atoi(line)
			if err == nil && ctrl.Answer(i, n-1) == nil {
				break
			}
			fmt.Fprintf(a.out, "Enter a number from 1 to %d\n", len(q.Options))
		}
	}
	return nil
}

// parseAnswers turns "1,3,2" into zero-based choices
func parseAnswers(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	choices := make([]int, 0, len(parts))
	for _, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid answer %q", p)
		}
		choices = append(choices, n-1)
	}
	return choices, nil
}

func cmdDrill(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("drill", flag.ExitOnError)
	drillType := fs.String("type", "", "Drill type, e.g. \"Fire Drill\"")
	fs.Parse(args)

	user, err := a.requireAction(roles.ActionMarkDrill)
	if err != nil {
		return err
	}

	if *drillType == "" {
		for i, t := range service.DrillTypes {
			fmt.Fprintf(a.out, "  %d) %s\n", i+1, t)
		}
		line, err := a.prompt("Drill: ")
		if err != nil {
			return err
		}
		if n, err := strconv.Atoi(line); err == nil && n >= 1 && n <= len(service.DrillTypes) {
			line = service.DrillTypes[n-1]
		}
		*drillType = line
	}

	return service.NewDrillService(a.client, a.dashboard(), a.notifier, user).Record(ctx, *drillType)
}

func cmdAlerts(ctx context.Context, a *app, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		if _, err := a.requireAction(roles.ActionViewAlerts); err != nil {
			return err
		}
		alerts, err := a.client.ListAlerts(ctx)
		if err != nil {
			return err
		}
		printAlerts(a.out, alerts)
		return nil
	}
	if args[0] != "create" {
		return fmt.Errorf("unknown alerts command: %s", args[0])
	}

	defaults := models.DefaultAlertInput()
	fs := flag.NewFlagSet("alerts create", flag.ExitOnError)
	title := fs.String("title", "", "Alert title")
	message := fs.String("message", "", "Alert message")
	alertType := fs.String("type", string(defaults.AlertType), "general, fire, earthquake, flood or severe_weather")
	severity := fs.String("severity", string(defaults.Severity), "low, medium, high or critical")
	fs.Parse(args[1:])

	user, err := a.requireAction(roles.ActionCreateAlert)
	if err != nil {
		return err
	}

	input := models.AlertInput{
		Title:     *title,
		Message:   *message,
		AlertType: models.AlertType(*alertType),
		Severity:  models.Severity(*severity),
	}
	svc := service.NewAlertService(a.client, a.dashboard(), a.notifier, a.broadcaster(), user)
	alert, err := svc.Create(ctx, input)
	if err != nil {
		return err
	}
	printAlerts(a.out, []models.Alert{*alert})
	return nil
}

func cmdContacts(ctx context.Context, a *app, args []string) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}
	contacts, err := a.client.EmergencyContacts(ctx)
	if err != nil {
		return err
	}
	printContacts(a.out, contacts)
	return nil
}

func cmdPredict(ctx context.Context, a *app, args []string) error {
	fs := flag.NewFlagSet("predict", flag.ExitOnError)
	city := fs.String("city", "", "City to assess")
	fs.Parse(args)

	user, err := a.requireAction(roles.ActionRequestPrediction)
	if err != nil {
		return err
	}
	if *city == "" && fs.NArg() > 0 {
		*city = strings.Join(fs.Args(), " ")
	}

	prediction, err := service.NewPredictionService(a.client, a.dashboard(), a.notifier, user).Predict(ctx, *city)
	if err != nil {
		return err
	}
	printPredictions(a.out, []models.DisasterPrediction{*prediction})
	return nil
}

func cmdPredictions(ctx context.Context, a *app, args []string) error {
	if _, err := a.currentUser(); err != nil {
		return err
	}
	predictions, err := a.client.ListPredictions(ctx)
	if err != nil {
		return err
	}
	printPredictions(a.out, predictions)
	return nil
}

func cmdLeaderboard(ctx context.Context, a *app, args []string) error {
	if _, err := a.requireAction(roles.ActionViewLeaderboard); err != nil {
		return err
	}
	board, err := a.client.Leaderboard(ctx)
	if err != nil {
		return err
	}
	printLeaderboard(a.out, board)
	return nil
}

func cmdStudents(ctx context.Context, a *app, args []string) error {
	if _, err := a.requireAction(roles.ActionViewStudentProgress); err != nil {
		return err
	}
	report, err := a.client.StudentsProgress(ctx)
	if err != nil {
		return err
	}
	printStudentsProgress(a.out, report)
	return nil
}

func cmdTeachers(ctx context.Context, a *app, args []string) error {
	if _, err := a.requireAction(roles.ActionViewTeacherProgress); err != nil {
		return err
	}
	report, err := a.client.TeachersProgress(ctx)
	if err != nil {
		return err
	}
	printTeachersProgress(a.out, report)
	return nil
}

func cmdUsers(ctx context.Context, a *app, args []string) error {
	if _, err := a.requireAction(roles.ActionViewUsers); err != nil {
		return err
	}
	users, err := a.client.ListUsers(ctx)
	if err != nil {
		return err
	}
	printUsers(a.out, users)
	return nil
}

func cmdQuizzes(ctx context.Context, a *app, args []string) error {
	user, err := a.requireAction(roles.ActionManageQuizzes)
	if err != nil {
		return err
	}
	svc := service.NewQuizService(a.client, a.dashboard(), a.notifier, user)

	sub := "list"
	if len(args) > 0 {
		sub, args = args[0], args[1:]
	}

	fs := flag.NewFlagSet("quizzes "+sub, flag.ExitOnError)
	id := fs.String("id", "", "Quiz ID (update, delete)")
	file := fs.String("file", "", "JSON file with title, module_id and questions (create, update)")
	fs.Parse(args)

	switch sub {
	case "list":
		quizzes, err := svc.List(ctx)
		if err != nil {
			return err
		}
		printQuizzes(a.out, quizzes)
	case "create":
		input, err := readQuizInput(*file)
		if err != nil {
			return err
		}
		quiz, err := svc.Create(ctx, input)
		if err != nil {
			return err
		}
		printQuizzes(a.out, []models.Quiz{*quiz})
	case "update":
		if *id == "" {
			return errors.New("-id is required")
		}
		input, err := readQuizInput(*file)
		if err != nil {
			return err
		}
		quiz, err := svc.Update(ctx, *id, input)
		if err != nil {
			return err
		}
		printQuizzes(a.out, []models.Quiz{*quiz})
	case "delete":
		if *id == "" {
			return errors.New("-id is required")
		}
		return svc.Delete(ctx, *id)
	default:
		return fmt.Errorf("unknown quizzes command: %s", sub)
	}
	return nil
}

func readQuizInput(path string) (models.QuizInput, error) {
	var input models.QuizInput
	if path == "" {
		return input, errors.New("-file is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return input, fmt.Errorf("failed to read quiz file: %w", err)
	}
	if err := json.Unmarshal(data, &input); err != nil {
		return input, fmt.Errorf("failed to parse quiz file: %w", err)
	}
	return input, nil
}
