package state

import (
	"bytes"
	"testing"

	"github.com/XDagger/xdagj-sub001/core/types"
)

var (
	addrA = types.BytesToAddress([]byte{0xaa})
	addrB = types.BytesToAddress([]byte{0xbb})
	key1  = types.WordFromUint64(1)
	val1  = types.WordFromUint64(0x11)
	val2  = types.WordFromUint64(0x22)
)

// === Account Tests ===

func TestAccount_NewAccount(t *testing.T) {
	acc := NewAccount()

	if acc.Nonce != 0 {
		t.Errorf("Expected nonce 0, got %d", acc.Nonce)
	}
	if !acc.Balance.IsZero() {
		t.Error("Expected zero balance")
	}
	if !acc.IsEmpty() {
		t.Error("New account should be empty")
	}
	if acc.IsContract() {
		t.Error("New account should not be a contract")
	}
}

func TestAccount_Serialize(t *testing.T) {
	acc := NewAccount()
	acc.Nonce = 42
	acc.Balance = types.WordFromUint64(1_000_000)
	acc.CodeHash = types.Hash{1, 2, 3}

	decoded, err := DeserializeAccount(acc.Serialize())
	if err != nil {
		t.Fatalf("DeserializeAccount failed: %v", err)
	}
	if decoded.Nonce != acc.Nonce || decoded.Balance != acc.Balance || decoded.CodeHash != acc.CodeHash {
		t.Errorf("Decoded account mismatch: %+v vs %+v", decoded, acc)
	}

	if _, err := DeserializeAccount([]byte{1, 2, 3}); err != ErrInvalidAccountData {
		t.Errorf("Expected ErrInvalidAccountData, got %v", err)
	}
}

// === Database Tests ===

func TestMemoryDatabase_PutGet(t *testing.T) {
	db := NewMemoryDatabase()

	if err := db.Put([]byte("key"), []byte("value")); err != nil {
		t.Fatalf("Put failed: %v", err)
	}
	got, err := db.Get([]byte("key"))
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !bytes.Equal(got, []byte("value")) {
		t.Errorf("Expected value, got %s", got)
	}

	if _, err := db.Get([]byte("missing")); err != ErrNotFound {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestMemoryDatabase_Batch(t *testing.T) {
	db := NewMemoryDatabase()
	db.Put([]byte("old"), []byte("1"))

	batch := db.NewBatch()
	batch.Put([]byte("k1"), []byte("v1"))
	batch.Delete([]byte("old"))
	batch.Put([]byte("old"), []byte("2"))

	if batch.Size() != 3 {
		t.Errorf("Expected batch size 3, got %d", batch.Size())
	}
	if ok, _ := db.Has([]byte("k1")); ok {
		t.Error("Batch should not be visible before Write")
	}
	if err := batch.Write(); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, _ := db.Get([]byte("old"))
	if !bytes.Equal(got, []byte("2")) {
		t.Errorf("Operations should apply in order, got %s", got)
	}
}

func TestMemoryDatabase_ForEach(t *testing.T) {
	db := NewMemoryDatabase()
	db.Put([]byte("s1"), []byte("a"))
	db.Put([]byte("s2"), []byte("b"))
	db.Put([]byte("x1"), []byte("c"))

	var keys []string
	db.ForEach([]byte("s"), func(key, _ []byte) error {
		keys = append(keys, string(key))
		return nil
	})
	if len(keys) != 2 || keys[0] != "s1" || keys[1] != "s2" {
		t.Errorf("Unexpected keys %v", keys)
	}
}

// === Repository Tests ===

func TestRepository_Balance(t *testing.T) {
	repo := NewMemoryRepository()

	if repo.Exists(addrA) {
		t.Error("Account should not exist")
	}
	repo.AddBalance(addrA, types.WordFromUint64(100))
	if !repo.Exists(addrA) {
		t.Error("Account should exist after AddBalance")
	}

	Transfer(repo, addrA, addrB, types.WordFromUint64(30))
	if got := repo.GetBalance(addrA); got != types.WordFromUint64(70) {
		t.Errorf("Expected 70, got %s", got)
	}
	if got := repo.GetBalance(addrB); got != types.WordFromUint64(30) {
		t.Errorf("Expected 30, got %s", got)
	}
}

func TestRepository_Nonce(t *testing.T) {
	repo := NewMemoryRepository()

	if n := repo.IncreaseNonce(addrA); n != 1 {
		t.Errorf("Expected nonce 1, got %d", n)
	}
	repo.SetNonce(addrA, 10)
	if n := repo.GetNonce(addrA); n != 10 {
		t.Errorf("Expected nonce 10, got %d", n)
	}
}

func TestRepository_Code(t *testing.T) {
	repo := NewMemoryRepository()
	code := []byte{0x60, 0x01, 0x60, 0x00, 0x55}

	if repo.GetCodeHash(addrA) != types.EmptyHash {
		t.Error("Missing account should have zero code hash")
	}
	repo.SaveCode(addrA, code)
	if !bytes.Equal(repo.GetCode(addrA), code) {
		t.Error("Code mismatch")
	}
	if repo.GetCodeHash(addrA) == EmptyCodeHash {
		t.Error("Code hash should be set")
	}

	repo.CreateAccount(addrB)
	if repo.GetCode(addrB) != nil {
		t.Error("New account should have no code")
	}
	if repo.GetCodeHash(addrB) != EmptyCodeHash {
		t.Error("New account should have the empty code hash")
	}
}

func TestRepository_StorageRoundTrip(t *testing.T) {
	repo := NewMemoryRepository()
	repo.PutStorageRow(addrA, key1, val1)

	track := repo.StartTracking()
	track.PutStorageRow(addrA, key1, val2)
	if got := track.GetStorageRow(addrA, key1); got != val2 {
		t.Errorf("Expected %s inside checkpoint, got %s", val2, got)
	}
	if got := repo.GetStorageRow(addrA, key1); got != val1 {
		t.Errorf("Parent should not see uncommitted write, got %s", got)
	}

	track.Rollback()
	if got := repo.GetStorageRow(addrA, key1); got != val1 {
		t.Errorf("Expected %s after rollback, got %s", val1, got)
	}
}

func TestRepository_NestedCommit(t *testing.T) {
	repo := NewMemoryRepository()

	outer := repo.StartTracking()
	inner := outer.StartTracking()
	inner.PutStorageRow(addrA, key1, val1)
	inner.AddBalance(addrA, types.WordFromUint64(5))

	if err := inner.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}
	if got := outer.GetStorageRow(addrA, key1); got != val1 {
		t.Errorf("Outer should see merged write, got %s", got)
	}
	if got := repo.GetStorageRow(addrA, key1); !got.IsZero() {
		t.Errorf("Root should not see write yet, got %s", got)
	}

	outer.Commit()
	if got := repo.GetBalance(addrA); got != types.WordFromUint64(5) {
		t.Errorf("Expected balance 5, got %s", got)
	}
	if err := inner.Commit(); err != ErrReleasedLayer {
		t.Errorf("Expected ErrReleasedLayer, got %v", err)
	}
}

func TestRepository_SiblingIsolation(t *testing.T) {
	repo := NewMemoryRepository()
	a := repo.StartTracking()
	b := repo.StartTracking()

	a.PutStorageRow(addrA, key1, val1)
	if got := b.GetStorageRow(addrA, key1); !got.IsZero() {
		t.Errorf("Sibling should not see write, got %s", got)
	}
}

func TestRepository_DeleteHidesStorage(t *testing.T) {
	repo := NewMemoryRepository()
	repo.PutStorageRow(addrA, key1, val1)
	repo.AddBalance(addrA, types.WordFromUint64(9))
	repo.Commit()

	track := repo.StartTracking()
	track.Delete(addrA)
	if track.Exists(addrA) {
		t.Error("Deleted account should not exist")
	}
	if got := track.GetStorageRow(addrA, key1); !got.IsZero() {
		t.Errorf("Deleted account storage should read zero, got %s", got)
	}
	if !track.GetBalance(addrA).IsZero() {
		t.Error("Deleted account balance should be zero")
	}

	track.Commit()
	repo.Commit()
	if got := repo.GetStorageRow(addrA, key1); !got.IsZero() {
		t.Errorf("Storage should be gone after flush, got %s", got)
	}
}

func TestRepository_FlushAndReload(t *testing.T) {
	db := NewMemoryDatabase()
	repo := NewRepository(db)
	code := []byte{0x00}

	repo.AddBalance(addrA, types.WordFromUint64(77))
	repo.SaveCode(addrA, code)
	repo.PutStorageRow(addrA, key1, val1)
	if err := repo.Commit(); err != nil {
		t.Fatalf("Commit failed: %v", err)
	}

	reloaded := NewRepository(db)
	if got := reloaded.GetBalance(addrA); got != types.WordFromUint64(77) {
		t.Errorf("Expected balance 77, got %s", got)
	}
	if !bytes.Equal(reloaded.GetCode(addrA), code) {
		t.Error("Code not persisted")
	}
	if got := reloaded.GetStorageRow(addrA, key1); got != val1 {
		t.Errorf("Expected %s, got %s", val1, got)
	}
}

func TestRepository_Clone(t *testing.T) {
	repo := NewMemoryRepository()
	track := repo.StartTracking()
	track.PutStorageRow(addrA, key1, val1)

	cpy := track.Clone()
	cpy.PutStorageRow(addrA, key1, val2)

	if got := track.GetStorageRow(addrA, key1); got != val1 {
		t.Errorf("Original should be unaffected by clone, got %s", got)
	}
	if got := cpy.GetStorageRow(addrA, key1); got != val2 {
		t.Errorf("Clone should see its own write, got %s", got)
	}
}

// === BlockStore Tests ===

func TestMemoryBlockStore(t *testing.T) {
	store := NewMemoryBlockStore()
	h := types.Hash{0xab}
	store.AddBlockHash(5, h)

	if got := store.GetBlockHashByNumber(5); got != h {
		t.Errorf("Expected %s, got %s", h, got)
	}
	if got := store.GetBlockHashByNumber(6); got != types.EmptyHash {
		t.Errorf("Unknown block should return zero hash, got %s", got)
	}
}
