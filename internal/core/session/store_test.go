package session

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_GetUnknown(t *testing.T) {
	store := NewStore()
	_, ok := store.Get("nobody")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestStore_ResetCreatesEmptySession(t *testing.T) {
	store := NewStore()

	sess := store.Reset("u1")
	assert.Equal(t, "u1", sess.UserID)
	assert.Equal(t, StateMain, sess.State)
	assert.Empty(t, sess.Category)
	assert.Empty(t, sess.Ingredients)
	assert.False(t, sess.UpdatedAt.IsZero())

	got, ok := store.Get("u1")
	require.True(t, ok)
	assert.Equal(t, sess, got)
	assert.Equal(t, 1, store.Len())
}

func TestStore_ResetOverwrites(t *testing.T) {
	store := NewStore()
	_, err := store.Update("u1", func(sess *Session, existed bool) error {
		sess.State = StateIngredient
		sess.Category = "Dairy"
		sess.Ingredients = append(sess.Ingredients, "Milk")
		return nil
	})
	require.NoError(t, err)

	sess := store.Reset("u1")
	assert.Equal(t, StateMain, sess.State)
	assert.Empty(t, sess.Category)
	assert.Empty(t, sess.Ingredients)
	assert.Equal(t, 1, store.Len())
}

func TestStore_UpdateAutoInitializes(t *testing.T) {
	store := NewStore()

	var sawExisted bool
	sess, err := store.Update("u1", func(sess *Session, existed bool) error {
		sawExisted = existed
		assert.Equal(t, StateMain, sess.State)
		sess.Ingredients = append(sess.Ingredients, "Milk")
		return nil
	})
	require.NoError(t, err)
	assert.False(t, sawExisted)
	assert.Equal(t, []string{"Milk"}, sess.Ingredients)

	_, err = store.Update("u1", func(sess *Session, existed bool) error {
		sawExisted = existed
		return nil
	})
	require.NoError(t, err)
	assert.True(t, sawExisted)
}

func TestStore_UpdateFailureLeavesSessionUntouched(t *testing.T) {
	store := NewStore()
	_, err := store.Update("u1", func(sess *Session, existed bool) error {
		sess.Ingredients = append(sess.Ingredients, "Milk")
		return nil
	})
	require.NoError(t, err)

	boom := errors.New("boom")
	sess, err := store.Update("u1", func(sess *Session, existed bool) error {
		sess.Ingredients = append(sess.Ingredients, "Egg")
		sess.State = StateCategory
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []string{"Milk"}, sess.Ingredients)

	got, _ := store.Get("u1")
	assert.Equal(t, []string{"Milk"}, got.Ingredients)
	assert.Equal(t, StateMain, got.State)
}

func TestStore_FailedFirstContactDoesNotCreateSession(t *testing.T) {
	store := NewStore()
	_, err := store.Update("u1", func(sess *Session, existed bool) error {
		return errors.New("catalog down")
	})
	require.Error(t, err)

	_, ok := store.Get("u1")
	assert.False(t, ok)
	assert.Equal(t, 0, store.Len())
}

func TestStore_GetReturnsCopy(t *testing.T) {
	store := NewStore()
	_, err := store.Update("u1", func(sess *Session, existed bool) error {
		sess.Ingredients = append(sess.Ingredients, "Milk")
		return nil
	})
	require.NoError(t, err)

	got, _ := store.Get("u1")
	got.Ingredients[0] = "Poison"

	again, _ := store.Get("u1")
	assert.Equal(t, []string{"Milk"}, again.Ingredients)
}

func TestStore_ConcurrentUsersAreIsolated(t *testing.T) {
	store := NewStore()
	const users = 8
	const perUser = 200

	var wg sync.WaitGroup
	for u := 0; u < users; u++ {
		userID := fmt.Sprintf("user-%d", u)
		for i := 0; i < perUser; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				_, err := store.Update(userID, func(sess *Session, existed bool) error {
					sess.Ingredients = append(sess.Ingredients, fmt.Sprintf("%s-%d", userID, i))
					return nil
				})
				assert.NoError(t, err)
			}(i)
		}
	}
	wg.Wait()

	assert.Equal(t, users, store.Len())
	for u := 0; u < users; u++ {
		userID := fmt.Sprintf("user-%d", u)
		sess, ok := store.Get(userID)
		require.True(t, ok)
		assert.Len(t, sess.Ingredients, perUser, userID)

		seen := make(map[string]bool)
		for _, ing := range sess.Ingredients {
			assert.Contains(t, ing, userID+"-")
			seen[ing] = true
		}
		assert.Len(t, seen, perUser, "lost update for %s", userID)
	}
}
