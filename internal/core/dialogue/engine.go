package dialogue

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"

	"recipe-finder/internal/core/catalog"
	"recipe-finder/internal/core/pagination"
	"recipe-finder/internal/core/session"
	"recipe-finder/internal/pkg/common"
)

// Message 一次使用者輸入
type Message struct {
	UserID string `json:"user_id"`
	Text   string `json:"text"`
}

// Recommender 依食材產生推薦訊息
type Recommender interface {
	Done(ctx context.Context, ingredientNames []string) (string, error)
}

// handlerFunc 在使用者鎖內處理一次輸入，可直接修改 sess（回傳錯誤時不會寫回）
type handlerFunc func(ctx context.Context, sess *session.Session, text string) (Reply, error)

type transitionKey struct {
	state   session.State
	trigger Trigger
}

// Engine 對話狀態機
type Engine struct {
	sessions    *session.Store
	catalog     catalog.Gateway
	recommender Recommender
	pager       *pagination.Formatter

	transitions map[transitionKey]handlerFunc
	global      map[Trigger]handlerFunc
	fallback    map[session.State]handlerFunc
}

// NewEngine 創建對話狀態機
func NewEngine(sessions *session.Store, gateway catalog.Gateway, recommender Recommender, pager *pagination.Formatter) *Engine {
	e := &Engine{
		sessions:    sessions,
		catalog:     gateway,
		recommender: recommender,
		pager:       pager,
	}

	// 狀態 × 事件 -> 動作；動作自行設定下一個狀態
	e.transitions = map[transitionKey]handlerFunc{
		{session.StateMain, TriggerAdd}:        e.add,
		{session.StateMain, TriggerDone}:       e.done,
		{session.StateMain, TriggerStatus}:     e.status,
		{session.StateCategory, TriggerText}:   e.chooseCategory,
		{session.StateIngredient, TriggerText}: e.chooseIngredient,
		{session.StateEnded, TriggerAdd}:       e.add,
		{session.StateEnded, TriggerDone}:      e.done,
		{session.StateEnded, TriggerStatus}:    e.status,
	}
	// 任何狀態皆可使用
	e.global = map[Trigger]handlerFunc{
		TriggerStart:  e.start,
		TriggerCancel: e.cancel,
	}
	// 無對應轉移時：不修改會話，重新提示目前步驟
	e.fallback = map[session.State]handlerFunc{
		session.StateMain:       e.status,
		session.StateCategory:   e.repromptCategory,
		session.StateIngredient: e.repromptIngredient,
		session.StateEnded:      e.endedHint,
	}
	return e
}

// Handle 處理一次使用者輸入並回傳要送出的訊息
//
// 外部服務失敗時回傳錯誤，會話維持原狀，使用者可以重送同一個指令。
func (e *Engine) Handle(ctx context.Context, msg Message) (Reply, error) {
	if msg.UserID == "" {
		return Reply{}, common.ErrInvalidRequest.Wrap(errors.New("user id is required"))
	}

	start := time.Now()
	trigger := ParseTrigger(msg.Text)

	var (
		reply    Reply
		from, to session.State
	)
	_, err := e.sessions.Update(msg.UserID, func(sess *session.Session, existed bool) error {
		if !existed {
			common.LogDebug("首次接觸，建立空白會話", zap.String("user_id", msg.UserID))
		}
		from = sess.State

		h, explicit := e.handler(sess.State, trigger)
		if !explicit {
			common.LogDebug("輸入不符合目前步驟，重新提示",
				zap.String("user_id", msg.UserID),
				zap.String("state", string(sess.State)),
				zap.String("trigger", string(trigger)),
			)
		}
		r, err := h(ctx, sess, msg.Text)
		if err != nil {
			return err
		}
		reply = r
		to = sess.State
		return nil
	})

	common.LogTurn(msg.UserID, string(from), string(to), time.Since(start), err)
	if err != nil {
		return Reply{}, err
	}
	return reply, nil
}

// handler 找出 state 收到 trigger 時的處理，第二個回傳值為 false 表示落到重新提示
func (e *Engine) handler(state session.State, trigger Trigger) (handlerFunc, bool) {
	if h, ok := e.global[trigger]; ok {
		return h, true
	}
	if h, ok := e.transitions[transitionKey{state, trigger}]; ok {
		return h, true
	}
	if h, ok := e.fallback[state]; ok {
		return h, false
	}
	// 未知狀態視為 MAIN
	return e.status, false
}

func (e *Engine) start(ctx context.Context, sess *session.Session, _ string) (Reply, error) {
	*sess = session.New(sess.UserID)
	return Reply{Text: greetingText + "\n\n" + statusText(sess.Ingredients)}, nil
}

func (e *Engine) add(ctx context.Context, sess *session.Session, _ string) (Reply, error) {
	categories, err := e.listCategories(ctx)
	if err != nil {
		return Reply{}, err
	}
	sess.State = session.StateCategory
	sess.Category = ""
	return Reply{Text: selectCategoryText, Keyboard: e.pager.Rows(categories)}, nil
}

func (e *Engine) status(ctx context.Context, sess *session.Session, _ string) (Reply, error) {
	sess.State = session.StateMain
	return Reply{Text: statusText(sess.Ingredients)}, nil
}

func (e *Engine) done(ctx context.Context, sess *session.Session, _ string) (Reply, error) {
	text, err := e.recommender.Done(ctx, sess.Ingredients)
	if err != nil {
		return Reply{}, err
	}
	sess.State = session.StateMain
	if text == "" {
		return Reply{Text: noRecipesText}, nil
	}
	return Reply{Text: text, HTML: true}, nil
}

func (e *Engine) cancel(ctx context.Context, sess *session.Session, _ string) (Reply, error) {
	common.LogInfo("User canceled the conversation", zap.String("user_id", sess.UserID))
	sess.State = session.StateEnded
	sess.Category = ""
	return Reply{Text: farewellText, RemoveKeyboard: true}, nil
}

func (e *Engine) chooseCategory(ctx context.Context, sess *session.Session, text string) (Reply, error) {
	categories, err := e.listCategories(ctx)
	if err != nil {
		return Reply{}, err
	}
	if !slices.Contains(categories, text) {
		return Reply{Text: selectCategoryText, Keyboard: e.pager.Rows(categories)}, nil
	}

	ingredients, err := e.listIngredients(ctx, text)
	if err != nil {
		return Reply{}, err
	}
	sess.Category = text
	sess.State = session.StateIngredient
	return Reply{Text: chooseIngredientText, Keyboard: e.pager.Rows(ingredients)}, nil
}

func (e *Engine) chooseIngredient(ctx context.Context, sess *session.Session, text string) (Reply, error) {
	ingredients, err := e.listIngredients(ctx, sess.Category)
	if err != nil {
		return Reply{}, err
	}
	if sess.Category == "" || !slices.Contains(ingredients, text) {
		return Reply{Text: chooseIngredientText, Keyboard: e.pager.Rows(ingredients)}, nil
	}

	// 重複加入不去重
	sess.Ingredients = append(sess.Ingredients, text)
	sess.Category = ""
	sess.State = session.StateMain
	return Reply{Text: addedText(text) + "\n\n" + statusText(sess.Ingredients)}, nil
}

func (e *Engine) repromptCategory(ctx context.Context, sess *session.Session, _ string) (Reply, error) {
	categories, err := e.listCategories(ctx)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: selectCategoryText, Keyboard: e.pager.Rows(categories)}, nil
}

func (e *Engine) repromptIngredient(ctx context.Context, sess *session.Session, _ string) (Reply, error) {
	ingredients, err := e.listIngredients(ctx, sess.Category)
	if err != nil {
		return Reply{}, err
	}
	return Reply{Text: chooseIngredientText, Keyboard: e.pager.Rows(ingredients)}, nil
}

func (e *Engine) endedHint(ctx context.Context, sess *session.Session, _ string) (Reply, error) {
	return Reply{Text: endedHintText, RemoveKeyboard: true}, nil
}

func (e *Engine) listCategories(ctx context.Context) ([]string, error) {
	categories, err := e.catalog.ListCategories(ctx)
	if err != nil {
		return nil, common.EnsureCode(common.ErrCatalogUnavailable, fmt.Errorf("failed to list categories: %w", err))
	}
	return categories, nil
}

func (e *Engine) listIngredients(ctx context.Context, category string) ([]string, error) {
	if category == "" {
		return []string{}, nil
	}
	ingredients, err := e.catalog.ListIngredients(ctx, category)
	if err != nil {
		return nil, common.EnsureCode(common.ErrCatalogUnavailable, fmt.Errorf("failed to list ingredients of %q: %w", category, err))
	}
	return ingredients, nil
}
