// Package debounce fournit un debounce trailing-edge pour coalescer des
// écritures rapprochées (autosave des champs de formulaire).
package debounce

import (
	"sync"
	"time"
)

// New renvoie un wrapper de fn qui, à chaque appel, annule l'appel en attente
// et replanifie une exécution delay plus tard avec le dernier argument reçu.
// Pas d'exécution leading-edge, pas de plafond d'attente : une suite d'appels
// espacés de moins de delay repousse l'exécution indéfiniment.
//
// Un wrapper par champ logique : partager un même wrapper entre deux champs
// distincts fait que leurs éditions s'annulent mutuellement.
func New[T any](delay time.Duration, fn func(T)) func(T) {
	var mu sync.Mutex
	var timer *time.Timer

	return func(arg T) {
		mu.Lock()
		defer mu.Unlock()
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(delay, func() {
			fn(arg)
		})
	}
}

// Group gère un debouncer indépendant par clé (ex. "projet:champ").
// Chaque clé a son propre timer ; les éditions sur des clés différentes
// ne s'annulent pas entre elles.
type Group[T any] struct {
	delay time.Duration
	fn    func(key string, arg T)

	mu     sync.Mutex
	timers map[string]*time.Timer
}

// NewGroup construit le groupe. fn reçoit la clé et le dernier argument.
func NewGroup[T any](delay time.Duration, fn func(key string, arg T)) *Group[T] {
	return &Group[T]{
		delay:  delay,
		fn:     fn,
		timers: make(map[string]*time.Timer),
	}
}

// Call replanifie l'exécution pour la clé donnée avec le dernier argument.
func (g *Group[T]) Call(key string, arg T) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if t, ok := g.timers[key]; ok {
		t.Stop()
	}
	g.timers[key] = time.AfterFunc(g.delay, func() {
		g.mu.Lock()
		delete(g.timers, key)
		g.mu.Unlock()
		g.fn(key, arg)
	})
}

// Flush exécute immédiatement tous les appels en attente (arrêt propre).
func (g *Group[T]) Flush() {
	g.mu.Lock()
	timers := g.timers
	g.timers = make(map[string]*time.Timer)
	g.mu.Unlock()
	for _, t := range timers {
		// Si le timer n'a pas encore tiré, le forcer à tirer maintenant.
		if t.Stop() {
			t.Reset(0)
		}
	}
}
