package debounce_test

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/renovapro/crm-api/pkg/debounce"
)

// recorder collecte les exécutions de façon thread-safe.
type recorder struct {
	mu    sync.Mutex
	calls []string
}

func (r *recorder) add(v string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, v)
}

func (r *recorder) snapshot() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.calls))
	copy(out, r.calls)
	return out
}

// ──────────────────────────────────────────────────────────────────────────────
// New
// ──────────────────────────────────────────────────────────────────────────────

// Cas 1 : une rafale d'appels plus rapprochés que le délai ne produit qu'une
// seule exécution, avec le dernier argument.
func TestNew_RafaleCoalesceeSurDernierArgument(t *testing.T) {
	rec := &recorder{}
	save := debounce.New(30*time.Millisecond, rec.add)

	save("v1")
	save("v2")
	save("v3")

	time.Sleep(100 * time.Millisecond)
	require.Equal(t, []string{"v3"}, rec.snapshot())
}

// Cas 2 : pas d'exécution leading-edge, rien n'est exécuté avant le délai.
func TestNew_PasDExecutionImmediate(t *testing.T) {
	rec := &recorder{}
	save := debounce.New(50*time.Millisecond, rec.add)

	save("v1")
	time.Sleep(10 * time.Millisecond)
	assert.Empty(t, rec.snapshot())

	time.Sleep(100 * time.Millisecond)
	assert.Equal(t, []string{"v1"}, rec.snapshot())
}

// Cas 3 : deux rafales séparées par une période de silence produisent deux
// exécutions distinctes.
func TestNew_RafalesSepareesExecuteesChacune(t *testing.T) {
	rec := &recorder{}
	save := debounce.New(20*time.Millisecond, rec.add)

	save("a")
	time.Sleep(80 * time.Millisecond)
	save("b")
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, []string{"a", "b"}, rec.snapshot())
}

// ──────────────────────────────────────────────────────────────────────────────
// Group
// ──────────────────────────────────────────────────────────────────────────────

// Cas 4 : les clés sont indépendantes, une édition sur une clé n'annule pas
// le timer d'une autre.
func TestGroup_ClesIndependantes(t *testing.T) {
	rec := &recorder{}
	g := debounce.NewGroup(30*time.Millisecond, func(key, arg string) {
		rec.add(key + "=" + arg)
	})

	g.Call("projet1:decouverte", "d1")
	g.Call("projet1:cuisine", "c1")
	g.Call("projet1:decouverte", "d2")

	time.Sleep(100 * time.Millisecond)
	calls := rec.snapshot()
	assert.Len(t, calls, 2)
	assert.Contains(t, calls, "projet1:decouverte=d2")
	assert.Contains(t, calls, "projet1:cuisine=c1")
}

// Cas 5 : Flush force l'écriture immédiate de tout ce qui est en attente
// (arrêt propre du serveur sans perte d'édition).
func TestGroup_FlushEcritLesAppelsEnAttente(t *testing.T) {
	rec := &recorder{}
	g := debounce.NewGroup(10*time.Second, func(key, arg string) {
		rec.add(key + "=" + arg)
	})

	g.Call("k1", "a")
	g.Call("k2", "b")
	g.Flush()

	// Les timers forcés tirent de façon asynchrone.
	time.Sleep(50 * time.Millisecond)
	calls := rec.snapshot()
	assert.Len(t, calls, 2)
	assert.Contains(t, calls, "k1=a")
	assert.Contains(t, calls, "k2=b")
}

// Cas 6 : après Flush, une nouvelle édition repart sur un cycle normal.
func TestGroup_NouvelleEditionApresFlush(t *testing.T) {
	rec := &recorder{}
	g := debounce.NewGroup(20*time.Millisecond, func(key, arg string) {
		rec.add(arg)
	})

	g.Call("k", "avant")
	g.Flush()
	time.Sleep(50 * time.Millisecond)

	g.Call("k", "apres")
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, []string{"avant", "apres"}, rec.snapshot())
}
