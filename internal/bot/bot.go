package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"week-planner/internal/repository"
	"week-planner/internal/service"
	"week-planner/internal/week"
)

const (
	menuLabelTasks      = "📋 Задачи"
	menuLabelWeek       = "🗓 Неделя"
	menuLabelToday      = "📅 Сегодня"
	menuLabelCategories = "📂 Разделы"
	menuLabelHelp       = "ℹ️ Помощь"
)

// Services bundles what the bot talks to.
type Services struct {
	Categories  *service.CategoryService
	Tasks       *service.TaskService
	Preferences *service.PreferenceService
	Parity      *service.ParityService
}

// Bot aggregates Telegram API with services.
type Bot struct {
	api   *tgbotapi.BotAPI
	svc   Services
	loc   *time.Location
	now   func() time.Time
	views map[int64]*service.ViewState
	// weekStart is the real current week, advanced by RollWeek.
	weekStart time.Time
	mu        sync.Mutex
}

func New(token string, svc Services) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	log.Printf("[info] bot authorized on account %s", api.Self.UserName)

	loc := svc.Tasks.Location()
	return &Bot{
		api:       api,
		svc:       svc,
		loc:       loc,
		now:       time.Now,
		views:     make(map[int64]*service.ViewState),
		weekStart: week.StartOfWeek(time.Now().In(loc)),
	}, nil
}

// Start begins polling updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	log.Println("[info] start polling updates")

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	for update := range updates {
		if update.Message == nil || update.Message.Chat == nil || !update.Message.Chat.IsPrivate() {
			continue
		}
		if err := b.handleMessage(ctx, update.Message); err != nil {
			log.Printf("handle message: %v", err)
		}
	}

	return nil
}

// RollWeek moves the bot to the week containing now. Chats that were
// looking at the previous current week follow along.
func (b *Bot) RollWeek(ctx context.Context) error {
	next := week.StartOfWeek(b.now().In(b.loc))

	b.mu.Lock()
	prev := b.weekStart
	b.weekStart = next
	for _, view := range b.views {
		if view.CurrentWeekStart.Equal(prev) {
			view.CurrentWeekStart = next
		}
	}
	b.mu.Unlock()

	parity, err := b.svc.Parity.WeekParity(ctx, next)
	if err != nil {
		return fmt.Errorf("roll week: %w", err)
	}
	log.Printf("[info] week rolled to %s, parity %d", next.Format("2006-01-02"), parity)
	return nil
}

func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) error {
	if msg.From == nil {
		return nil
	}

	if msg.IsCommand() {
		log.Printf("[info] command from %d: /%s %s", msg.From.ID, msg.Command(), msg.CommandArguments())
		return b.handleCommand(ctx, msg.Chat.ID, msg.Command(), msg.CommandArguments())
	}

	if command, ok := menuAlias(msg.Text); ok {
		return b.handleCommand(ctx, msg.Chat.ID, command, "")
	}

	return b.sendText(msg.Chat.ID, "Я пока не понял сообщение. Набери /help для списка команд.")
}

func menuAlias(text string) (string, bool) {
	switch strings.TrimSpace(text) {
	case menuLabelTasks:
		return "tasks", true
	case menuLabelWeek:
		return "week", true
	case menuLabelToday:
		return "day", true
	case menuLabelCategories:
		return "categories", true
	case menuLabelHelp:
		return "help", true
	}
	return "", false
}

func (b *Bot) handleCommand(ctx context.Context, chatID int64, command, args string) error {
	args = strings.TrimSpace(args)
	var err error
	switch command {
	case "start", "help":
		return b.sendText(chatID, helpText)
	case "categories":
		err = b.handleCategories(ctx, chatID)
	case "newcategory":
		err = b.handleNewCategory(ctx, chatID, args)
	case "renamecategory":
		err = b.handleRenameCategory(ctx, chatID, args)
	case "deletecategory":
		err = b.handleDeleteCategory(ctx, chatID, args)
	case "reorder":
		err = b.handleReorder(ctx, chatID, args)
	case "general":
		err = b.handleGeneral(ctx, chatID, args)
	case "tasks":
		err = b.sendTaskList(ctx, chatID)
	case "expand":
		err = b.handleExpand(ctx, chatID, args)
	case "add":
		err = b.handleAdd(ctx, chatID, args)
	case "addweek":
		err = b.handleAddWeek(ctx, chatID, args)
	case "done":
		err = b.handleDone(ctx, chatID, args)
	case "rename":
		err = b.handleRename(ctx, chatID, args)
	case "delete":
		err = b.handleDelete(ctx, chatID, args)
	case "clear":
		err = b.handleClear(ctx, chatID, args)
	case "day":
		err = b.handleDay(ctx, chatID, args)
	case "week":
		err = b.sendWeek(ctx, chatID)
	case "next", "prev":
		err = b.handleShiftWeek(ctx, chatID, command, args)
	case "goto":
		err = b.handleGoto(ctx, chatID, args)
	case "parity":
		err = b.handleParity(ctx, chatID)
	default:
		return b.sendText(chatID, "Команда не поддерживается. Загляни в /help.")
	}
	if err != nil {
		return b.replyError(chatID, err)
	}
	return nil
}

const helpText = "ℹ️ <b>Подсказки</b>\n" +
	"• /tasks — список по разделам, /expand &lt;id|general&gt; — раскрыть раздел\n" +
	"• /add &lt;текст&gt; [| 2025-11-30 [14:00]] [| раздел] — новая задача\n" +
	"• /addweek &lt;текст&gt; [| раздел] — задача на показанную неделю\n" +
	"• /done &lt;id&gt; — отметить или снять отметку\n" +
	"• /rename &lt;id&gt; &lt;текст&gt;, /delete &lt;id&gt;\n" +
	"• /clear &lt;id|general&gt; — удалить все задачи раздела\n" +
	"• /categories, /newcategory &lt;имя&gt;, /renamecategory &lt;id&gt; &lt;имя&gt;\n" +
	"• /deletecategory &lt;id&gt; — удалить раздел вместе с задачами\n" +
	"• /reorder &lt;id&gt; &lt;id&gt; ... — новый порядок разделов\n" +
	"• /general &lt;имя&gt; — переименовать общий раздел\n" +
	"• /day [дата] — задачи на день\n" +
	"• /week, /next [n], /prev [n], /goto &lt;дата&gt; — неделя\n" +
	"• /parity — поменять чётность показанной недели"

func (b *Bot) handleCategories(ctx context.Context, chatID int64) error {
	categories, err := b.svc.Categories.List(ctx)
	if err != nil {
		return err
	}
	title, err := b.svc.Preferences.GeneralTitle(ctx)
	if err != nil {
		return err
	}
	return b.sendText(chatID, renderCategories(title, categories))
}

func (b *Bot) handleNewCategory(ctx context.Context, chatID int64, args string) error {
	category, err := b.svc.Categories.Add(ctx, args)
	if err != nil {
		return err
	}
	if category == nil {
		return b.sendText(chatID, "Укажи название: /newcategory Работа")
	}
	log.Printf("[info] category created id=%d order=%d", category.ID, category.SortOrder)
	return b.sendText(chatID, fmt.Sprintf("📂 Раздел «%s» создан (#%d).", escape(category.Name), category.ID))
}

func (b *Bot) handleRenameCategory(ctx context.Context, chatID int64, args string) error {
	id, name, err := parseIDAndText(args)
	if err != nil || name == "" {
		return b.sendText(chatID, "Формат: /renamecategory 3 Новое имя")
	}
	if err := b.svc.Categories.Rename(ctx, id, name); err != nil {
		return err
	}
	return b.handleCategories(ctx, chatID)
}

func (b *Bot) handleDeleteCategory(ctx context.Context, chatID int64, args string) error {
	id, err := parseID(args)
	if err != nil {
		return b.sendText(chatID, "Укажи ID раздела: /deletecategory 3")
	}
	category, err := b.svc.Categories.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := b.svc.Categories.Delete(ctx, id); err != nil {
		return err
	}
	log.Printf("[info] category deleted id=%d", id)
	return b.sendText(chatID, fmt.Sprintf("🗑 Раздел «%s» и все его задачи удалены.", escape(category.Name)))
}

func (b *Bot) handleReorder(ctx context.Context, chatID int64, args string) error {
	ids, err := parseIDs(args)
	if err != nil {
		return b.sendText(chatID, "Перечисли ID разделов в нужном порядке: /reorder 3 1 2")
	}
	if _, err := b.svc.Categories.ReorderByID(ctx, ids); err != nil {
		return err
	}
	return b.handleCategories(ctx, chatID)
}

func (b *Bot) handleGeneral(ctx context.Context, chatID int64, args string) error {
	if strings.TrimSpace(args) == "" {
		return b.sendText(chatID, "Укажи название: /general Входящие")
	}
	if err := b.svc.Preferences.RenameGeneralCategory(ctx, args); err != nil {
		return err
	}
	return b.handleCategories(ctx, chatID)
}

func (b *Bot) handleExpand(ctx context.Context, chatID int64, args string) error {
	id, err := parseSectionID(args)
	if err != nil {
		return b.sendText(chatID, "Укажи раздел: /expand 3 или /expand general")
	}
	b.mu.Lock()
	b.viewLocked(chatID).ToggleCategoryExpand(id)
	b.mu.Unlock()
	return b.sendTaskList(ctx, chatID)
}

func (b *Bot) handleAdd(ctx context.Context, chatID int64, args string) error {
	input, err := parseAddArgs(args, b.loc)
	if err != nil {
		return b.sendText(chatID, "Формат: /add Купить хлеб | 2025-11-30 18:00 | 2")
	}
	return b.createTask(ctx, chatID, input)
}

func (b *Bot) handleAddWeek(ctx context.Context, chatID int64, args string) error {
	input, err := parseAddWeekArgs(args, b.view(chatID).CurrentWeekStart)
	if err != nil {
		return b.sendText(chatID, "Формат: /addweek Спортзал 3 раза | 2")
	}
	return b.createTask(ctx, chatID, input)
}

func (b *Bot) createTask(ctx context.Context, chatID int64, input service.TaskInput) error {
	task, err := b.svc.Tasks.Add(ctx, input)
	if err != nil {
		return err
	}
	if task == nil {
		return b.sendText(chatID, "Текст задачи не может быть пустым.")
	}
	log.Printf("[info] task created id=%d week=%t", task.ID, task.IsWeekTask)
	return b.sendText(chatID, "✅ <b>Задача сохранена</b>\n"+formatTask(*task, b.loc))
}

func (b *Bot) handleDone(ctx context.Context, chatID int64, args string) error {
	id, err := parseID(args)
	if err != nil {
		return b.sendText(chatID, "Укажи ID задачи: /done 12")
	}
	task, err := b.svc.Tasks.Toggle(ctx, id)
	if err != nil {
		return err
	}
	return b.sendText(chatID, formatTask(*task, b.loc))
}

func (b *Bot) handleRename(ctx context.Context, chatID int64, args string) error {
	id, title, err := parseIDAndText(args)
	if err != nil || title == "" {
		return b.sendText(chatID, "Формат: /rename 12 Новый текст")
	}
	if err := b.svc.Tasks.Rename(ctx, id, title); err != nil {
		return err
	}
	task, err := b.svc.Tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	return b.sendText(chatID, formatTask(*task, b.loc))
}

func (b *Bot) handleDelete(ctx context.Context, chatID int64, args string) error {
	id, err := parseID(args)
	if err != nil {
		return b.sendText(chatID, "Укажи ID задачи: /delete 12")
	}
	task, err := b.svc.Tasks.Get(ctx, id)
	if err != nil {
		return err
	}
	if err := b.svc.Tasks.Delete(ctx, id); err != nil {
		return err
	}
	return b.sendText(chatID, fmt.Sprintf("🗑 Задача «%s» удалена.", escape(normalizeTitle(task.Title))))
}

func (b *Bot) handleClear(ctx context.Context, chatID int64, args string) error {
	bucket, err := parseBucket(args)
	if err != nil {
		return b.sendText(chatID, "Укажи раздел: /clear 3 или /clear general")
	}
	if bucket != nil {
		if _, err := b.svc.Categories.Get(ctx, *bucket); err != nil {
			return err
		}
	}
	n, err := b.svc.Tasks.ClearCategory(ctx, bucket)
	if err != nil {
		return err
	}
	return b.sendText(chatID, fmt.Sprintf("🧹 Удалено задач: %d.", n))
}

func (b *Bot) handleDay(ctx context.Context, chatID int64, args string) error {
	date := b.now().In(b.loc)
	if args != "" {
		parsed, err := parseDate(args, b.loc)
		if err != nil {
			return b.sendText(chatID, "Не могу распознать дату. Используй формат <code>2025-11-30</code>.")
		}
		date = parsed
	}
	tasks, err := b.svc.Tasks.ListForDate(ctx, date)
	if err != nil {
		return err
	}
	return b.sendText(chatID, renderDay(date, tasks, b.loc))
}

func (b *Bot) handleShiftWeek(ctx context.Context, chatID int64, command, args string) error {
	delta, err := parseWeekDelta(args)
	if err != nil {
		return b.sendText(chatID, "Количество недель должно быть числом: /next 2")
	}
	if command == "prev" {
		delta = -delta
	}
	b.mu.Lock()
	b.viewLocked(chatID).ChangeWeek(delta)
	b.mu.Unlock()
	return b.sendWeek(ctx, chatID)
}

func (b *Bot) handleGoto(ctx context.Context, chatID int64, args string) error {
	date, err := parseDate(args, b.loc)
	if err != nil {
		return b.sendText(chatID, "Формат: /goto 2025-11-30")
	}
	b.mu.Lock()
	b.viewLocked(chatID).SetWeekToDate(date)
	b.mu.Unlock()
	return b.sendWeek(ctx, chatID)
}

func (b *Bot) handleParity(ctx context.Context, chatID int64) error {
	start := b.view(chatID).CurrentWeekStart
	next, err := b.svc.Parity.FlipParity(ctx, start)
	if err != nil {
		return err
	}
	log.Printf("[info] parity of %s set to %d", start.Format("2006-01-02"), next)
	return b.sendWeek(ctx, chatID)
}

func (b *Bot) sendTaskList(ctx context.Context, chatID int64) error {
	categories, err := b.svc.Categories.List(ctx)
	if err != nil {
		return err
	}
	tasks, err := b.svc.Tasks.List(ctx)
	if err != nil {
		return err
	}
	title, err := b.svc.Preferences.GeneralTitle(ctx)
	if err != nil {
		return err
	}
	view := b.view(chatID)
	return b.sendText(chatID, renderList(title, categories, tasks, &view, b.loc))
}

func (b *Bot) sendWeek(ctx context.Context, chatID int64) error {
	view := b.view(chatID)
	v, err := LoadWeekView(ctx, b.svc, view.CurrentWeekStart, b.now())
	if err != nil {
		return err
	}
	return b.sendText(chatID, RenderWeek(v, b.loc))
}

// LoadWeekView collects the week containing start: its parity, its week
// tasks and the single-day tasks of every day.
func LoadWeekView(ctx context.Context, svc Services, start, now time.Time) (WeekView, error) {
	start = week.StartOfWeek(start.In(svc.Tasks.Location()))
	parity, err := svc.Parity.WeekParity(ctx, start)
	if err != nil {
		return WeekView{}, err
	}
	weekTasks, err := svc.Tasks.WeekTasks(ctx, start)
	if err != nil {
		return WeekView{}, err
	}
	days, err := svc.Tasks.DayTasksOfWeek(ctx, start)
	if err != nil {
		return WeekView{}, err
	}
	return WeekView{
		Start:     start,
		Parity:    parity,
		IsCurrent: start.Equal(week.StartOfWeek(now.In(start.Location()))),
		WeekTasks: weekTasks,
		Days:      days,
	}, nil
}

// view returns a copy of the chat's view state.
func (b *Bot) view(chatID int64) service.ViewState {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := b.viewLocked(chatID)
	copied := service.ViewState{
		ExpandedCategoryIDs: make(map[int]bool, len(v.ExpandedCategoryIDs)),
		CurrentWeekStart:    v.CurrentWeekStart,
	}
	for id, expanded := range v.ExpandedCategoryIDs {
		copied.ExpandedCategoryIDs[id] = expanded
	}
	return copied
}

func (b *Bot) viewLocked(chatID int64) *service.ViewState {
	v, ok := b.views[chatID]
	if !ok {
		v = service.NewViewState(b.weekStart)
		b.views[chatID] = v
	}
	return v
}

func (b *Bot) replyError(chatID int64, err error) error {
	if repository.IsNotFound(err) {
		return b.sendText(chatID, "Не найдено. Проверь ID.")
	}
	if errors.Is(err, service.ErrInvalidParity) {
		return b.sendText(chatID, "Чётность может быть только 1 или 2.")
	}
	log.Printf("[warn] command failed: %v", err)
	return b.sendText(chatID, fmt.Sprintf("Ошибка: %s", escape(err.Error())))
}

func (b *Bot) sendText(chatID int64, text string) error {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	msg.ReplyMarkup = mainMenuKeyboard()
	_, err := b.api.Send(msg)
	return err
}

func mainMenuKeyboard() tgbotapi.ReplyKeyboardMarkup {
	kb := tgbotapi.NewReplyKeyboard(
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelTasks),
			tgbotapi.NewKeyboardButton(menuLabelWeek),
			tgbotapi.NewKeyboardButton(menuLabelToday),
		),
		tgbotapi.NewKeyboardButtonRow(
			tgbotapi.NewKeyboardButton(menuLabelCategories),
			tgbotapi.NewKeyboardButton(menuLabelHelp),
		),
	)
	kb.ResizeKeyboard = true
	return kb
}
