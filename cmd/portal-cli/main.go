package main

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/uniport/uniport-portal/internal/models"
	"github.com/uniport/uniport-portal/internal/portal"
	"github.com/uniport/uniport-portal/internal/session"
	"github.com/uniport/uniport-portal/internal/workflow"
	"github.com/uniport/uniport-portal/pkg/config"
	"github.com/uniport/uniport-portal/pkg/export"
	appErrors "github.com/uniport/uniport-portal/pkg/errors"
	"github.com/uniport/uniport-portal/pkg/logger"
)

const usage = `usage: portal-cli <command> [args]

commands:
  login <email> <password>      sign in and persist the session
  logout                        clear the persisted session
  sections [query] [page]       browse the offered-section catalog
  prereg                        interactive preregistration (search/add/submit)
  enroll <prereg-id>            promote a preregistered course
  cancel <enrollment-id>        cancel a pending enrollment (asks to confirm)
  list                          show preregistered and enrolled courses
  profile                       show the applicant profile
  profile-edit <k=v> ...        edit profile fields (first, last, email, phone, address)
  grades                        show the grade report
  semesters                     list academic terms
  schedule [semester-id]        show the weekly subjects schedule
  regform [semester-id] [file]  show the registration form, or export it as PDF
`

type app struct {
	cfg    *config.Config
	logr   *zap.Logger
	store  *session.Store
	client *portal.Client
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	logr, err := logger.New(cfg.Env, cfg.Log)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	store, err := session.Open(cfg.Session.Path)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	defer store.Close()

	a := &app{
		cfg:    cfg,
		logr:   logr,
		store:  store,
		client: portal.New(cfg.Portal.BaseURL, cfg.Portal.Timeout, store, logr),
	}

	if err := a.run(context.Background(), os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "login":
		return a.login(ctx, args)
	case "logout":
		if err := a.store.Clear(); err != nil {
			return err
		}
		fmt.Println("logged out")
		return nil
	case "sections":
		return a.sections(ctx, args)
	case "prereg":
		return a.prereg(ctx)
	case "enroll":
		return a.enroll(ctx, args)
	case "cancel":
		return a.cancel(ctx, args)
	case "list":
		return a.list(ctx)
	case "profile":
		return a.profile(ctx)
	case "profile-edit":
		return a.profileEdit(ctx, args)
	case "grades":
		return a.grades(ctx)
	case "semesters":
		return a.semesters(ctx)
	case "schedule":
		return a.schedule(ctx, args)
	case "regform":
		return a.regform(ctx, args)
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) login(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: portal-cli login <email> <password>")
	}
	result, err := a.client.Login(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if err := a.store.SaveLogin(result.UserID, result.Token); err != nil {
		return err
	}
	fmt.Printf("logged in as user %d\n", result.UserID)
	return nil
}

func (a *app) sections(ctx context.Context, args []string) error {
	sess, err := a.store.Current()
	if err != nil {
		return err
	}

	query := ""
	page := 1
	if len(args) > 0 {
		query = args[0]
	}
	if len(args) > 1 {
		if n, err := strconv.Atoi(args[1]); err == nil {
			page = n
		}
	}

	svc := a.preregService(sess)
	svc.SearchPage(ctx, query, page)

	catalog, meta := svc.Catalog()
	if len(catalog) == 0 {
		if cached, ok := a.store.CachedCatalogPage(query, page, 0); ok {
			fmt.Println("(offline copy)")
			catalog = cached
		}
	} else {
		_ = a.store.CacheCatalogPage(query, page, catalog)
	}

	printSections(catalog)
	fmt.Printf("page %d of %d (%d total)\n", meta.Page, meta.LastPage, meta.Total)
	return nil
}

// prereg runs the interactive add/submit loop. The pending list lives only
// for the duration of the loop, mirroring the portal's transient local list.
func (a *app) prereg(ctx context.Context) error {
	sess, err := a.store.Current()
	if err != nil {
		return err
	}

	svc := a.preregService(sess)
	svc.RefreshPreregistered(ctx)
	svc.Search(ctx, "")

	fmt.Println("commands: search <q> | page <n> | add <sched-id> | list | submit | quit")
	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("prereg> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		fields := strings.Fields(scanner.Text())
		if len(fields) == 0 {
			continue
		}

		switch fields[0] {
		case "search":
			svc.Search(ctx, strings.Join(fields[1:], " "))
			catalog, meta := svc.Catalog()
			printSections(catalog)
			fmt.Printf("page %d of %d (%d total)\n", meta.Page, meta.LastPage, meta.Total)
		case "page":
			if len(fields) != 2 {
				fmt.Println("usage: page <n>")
				continue
			}
			n, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: page <n>")
				continue
			}
			svc.SetPage(ctx, n)
			catalog, meta := svc.Catalog()
			printSections(catalog)
			fmt.Printf("page %d of %d (%d total)\n", meta.Page, meta.LastPage, meta.Total)
		case "add":
			if len(fields) != 2 {
				fmt.Println("usage: add <sched-id>")
				continue
			}
			id, err := strconv.Atoi(fields[1])
			if err != nil {
				fmt.Println("usage: add <sched-id>")
				continue
			}
			sec, ok := findSection(svc, id)
			if !ok {
				fmt.Println("no such schedule id on this page")
				continue
			}
			if err := svc.AddCourse(sec); err != nil {
				fmt.Println(appErrors.FromError(err).Message)
				continue
			}
			fmt.Printf("added %s %s\n", sec.SubjectCode, sec.Section)
		case "list":
			for _, sec := range svc.Pending() {
				fmt.Printf("  [%d] %s %s (%d units) %s\n", sec.ScheduleID, sec.SubjectCode, sec.Section, sec.Units, fallback(sec.Schedule, "TBA"))
			}
		case "submit":
			report := svc.SubmitAll(ctx)
			fmt.Println(report.Summary())
			for _, res := range report.Results {
				if res.Err != nil {
					fmt.Printf("  %s: %s\n", res.Section.SubjectCode, appErrors.FromError(res.Err).Message)
				}
			}
		case "quit", "exit":
			return nil
		default:
			fmt.Println("commands: search <q> | page <n> | add <sched-id> | list | submit | quit")
		}
	}
}

func (a *app) enroll(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: portal-cli enroll <prereg-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid prereg id %q", args[0])
	}

	sess, err := a.store.Current()
	if err != nil {
		return err
	}

	svc := workflow.NewEnrollmentService(a.client, sess, a.logr)
	svc.RefreshPreregistered(ctx)
	for _, prereg := range svc.Preregistered() {
		if prereg.ID == id {
			if err := svc.Enroll(ctx, prereg); err != nil {
				return err
			}
			fmt.Printf("enrollment requested for %s (pending approval)\n", prereg.SubjectCode)
			return nil
		}
	}
	return fmt.Errorf("preregistration %d not found", id)
}

func (a *app) cancel(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: portal-cli cancel <enrollment-id>")
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid enrollment id %q", args[0])
	}

	sess, err := a.store.Current()
	if err != nil {
		return err
	}

	svc := workflow.NewEnrollmentService(a.client, sess, a.logr)
	svc.RefreshEnrolled(ctx, 0)
	for _, e := range svc.Enrolled() {
		if e.ID != id {
			continue
		}
		if !e.CanCancel() {
			return appErrors.Clone(appErrors.ErrNotPending, fmt.Sprintf("enrollment is already %s", e.Status))
		}
		fmt.Printf("cancel %s %s? [y/N] ", e.SubjectCode, e.Section)
		scanner := bufio.NewScanner(os.Stdin)
		if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			fmt.Println("not cancelled")
			return nil
		}
		if err := svc.Cancel(ctx, e); err != nil {
			return err
		}
		fmt.Println("enrollment cancelled")
		return nil
	}
	return fmt.Errorf("enrollment %d not found", id)
}

func (a *app) list(ctx context.Context) error {
	sess, err := a.store.Current()
	if err != nil {
		return err
	}

	svc := workflow.NewEnrollmentService(a.client, sess, a.logr)
	svc.RefreshPreregistered(ctx)
	svc.RefreshEnrolled(ctx, 0)

	fmt.Println("preregistered:")
	for _, p := range svc.Preregistered() {
		fmt.Printf("  [%d] %s %s (%d units) %s\n", p.ID, p.SubjectCode, p.Section, p.Units, p.Status)
	}
	fmt.Println("enrolled:")
	for _, e := range svc.Enrolled() {
		fmt.Printf("  [%d] %s %s (%d units) %s\n", e.ID, e.SubjectCode, e.Section, e.Units, e.Status)
	}
	return nil
}

func (a *app) profile(ctx context.Context) error {
	sess, err := a.store.Current()
	if err != nil {
		return err
	}
	profile, err := a.client.Profile(ctx, sess.UserID)
	if err != nil {
		if appErrors.Is(err, appErrors.ErrNotFound) {
			fmt.Println("no profile yet; use profile-edit to create one")
			return nil
		}
		return err
	}
	fmt.Printf("name:    %s %s\n", profile.FirstName, profile.LastName)
	fmt.Printf("email:   %s\n", fallback(profile.Email, "N/A"))
	fmt.Printf("phone:   %s\n", fallback(profile.Phone, "N/A"))
	fmt.Printf("address: %s\n", fallback(profile.Address, "N/A"))
	fmt.Printf("program: %s\n", fallback(profile.Program, "N/A"))
	return nil
}

func (a *app) profileEdit(ctx context.Context, args []string) error {
	sess, err := a.store.Current()
	if err != nil {
		return err
	}

	req := models.ProfileUpdateRequest{UserID: sess.UserID}
	if existing, err := a.client.Profile(ctx, sess.UserID); err == nil {
		req.FirstName = existing.FirstName
		req.MiddleName = existing.MiddleName
		req.LastName = existing.LastName
		req.Email = existing.Email
		req.Phone = existing.Phone
		req.Address = existing.Address
	}

	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok {
			return fmt.Errorf("expected key=value, got %q", arg)
		}
		switch key {
		case "first":
			req.FirstName = value
		case "middle":
			req.MiddleName = value
		case "last":
			req.LastName = value
		case "email":
			req.Email = value
		case "phone":
			req.Phone = value
		case "address":
			req.Address = value
		default:
			return fmt.Errorf("unknown field %q", key)
		}
	}

	if err := a.client.SaveProfile(ctx, req); err != nil {
		return err
	}
	fmt.Println("profile saved")
	return nil
}

func (a *app) grades(ctx context.Context) error {
	sess, err := a.store.Current()
	if err != nil {
		return err
	}
	grades, err := a.client.Grades(ctx, sess.UserID)
	if err != nil {
		return err
	}
	for _, g := range grades {
		fmt.Printf("  %-10s %-40s %2d  %-5s %s\n", g.SubjectCode, g.SubjectTitle, g.Units, fallback(g.Grade, "N/A"), fallback(g.Remarks, ""))
	}
	return nil
}

func (a *app) semesters(ctx context.Context) error {
	semesters, err := a.client.Semesters(ctx)
	if err != nil {
		return err
	}
	for _, sem := range semesters {
		marker := " "
		if sem.Active {
			marker = "*"
		}
		fmt.Printf("%s [%d] %s\n", marker, sem.ID, sem.Name)
	}
	return nil
}

func (a *app) schedule(ctx context.Context, args []string) error {
	sess, err := a.store.Current()
	if err != nil {
		return err
	}
	semesterID, err := a.pickSemester(ctx, args)
	if err != nil {
		return err
	}
	entries, err := a.client.SubjectsSchedule(ctx, sess.UserID, semesterID)
	if err != nil {
		return err
	}
	for _, entry := range entries {
		fmt.Printf("  %-10s %-4s %-20s %-8s %s\n", entry.SubjectCode, entry.Section, fallback(entry.Schedule, "TBA"), fallback(entry.Room, "TBA"), fallback(entry.Instructor, "TBA"))
	}
	return nil
}

func (a *app) regform(ctx context.Context, args []string) error {
	sess, err := a.store.Current()
	if err != nil {
		return err
	}

	var pdfPath string
	if len(args) > 0 && strings.HasSuffix(args[len(args)-1], ".pdf") {
		pdfPath = args[len(args)-1]
		args = args[:len(args)-1]
	}

	semesterID, err := a.pickSemester(ctx, args)
	if err != nil {
		return err
	}
	form, err := a.client.RegistrationForm(ctx, sess.UserID, semesterID)
	if err != nil {
		return err
	}

	if pdfPath != "" {
		data, err := export.RegistrationFormPDF(form)
		if err != nil {
			return err
		}
		if err := os.WriteFile(pdfPath, data, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		fmt.Printf("wrote %s\n", pdfPath)
		return nil
	}

	fmt.Printf("%s / %s\n", fallback(form.Semester, "N/A"), fallback(form.Program, "N/A"))
	for _, course := range form.Courses {
		fmt.Printf("  %-10s %-40s %-4s %2d  %s\n", course.SubjectCode, course.SubjectTitle, course.Section, course.Units, course.Status)
	}
	fmt.Printf("total units: %d\n", form.TotalUnits)
	return nil
}

func (a *app) preregService(sess *session.Session) *workflow.PreregService {
	return workflow.NewPreregService(a.client, sess, workflow.PreregConfig{
		PerPage:        a.cfg.Portal.PerPage,
		SearchDebounce: a.cfg.Portal.SearchDebounce,
		PruneSucceeded: a.cfg.Portal.PruneSucceeded,
	}, a.logr)
}

// pickSemester resolves an explicit semester argument, defaulting to the
// active term.
func (a *app) pickSemester(ctx context.Context, args []string) (int, error) {
	if len(args) > 0 {
		if id, err := strconv.Atoi(args[0]); err == nil {
			return id, nil
		}
	}
	semesters, err := a.client.Semesters(ctx)
	if err != nil {
		return 0, err
	}
	for _, sem := range semesters {
		if sem.Active {
			return sem.ID, nil
		}
	}
	return 0, fmt.Errorf("no active semester; pass a semester id")
}

func findSection(svc *workflow.PreregService, scheduleID int) (models.Section, bool) {
	catalog, _ := svc.Catalog()
	for _, sec := range catalog {
		if sec.ScheduleID == scheduleID {
			return sec, true
		}
	}
	return models.Section{}, false
}

func printSections(sections []models.Section) {
	for _, sec := range sections {
		fmt.Printf("  [%d] %-10s %-40s %-4s %2d units  %2d slots  %s\n",
			sec.ScheduleID, sec.SubjectCode, sec.SubjectTitle, sec.Section, sec.Units, sec.SlotsRemaining, fallback(sec.Schedule, "TBA"))
	}
}

func fallback(s, alt string) string {
	if s == "" {
		return alt
	}
	return s
}
