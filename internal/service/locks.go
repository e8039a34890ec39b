package service

import "sync"

// KeyedMutex serializes package mutations per participant so two
// requests racing on the last quota unit cannot both pass the check or
// both roll a finished package over.
//
// Entries are never evicted: the map grows with the set of distinct
// participant IDs seen by the process, one mutex per participant.
type KeyedMutex struct {
	mu    sync.Mutex
	locks map[uint]*sync.Mutex
}

func NewKeyedMutex() *KeyedMutex {
	return &KeyedMutex{
		locks: make(map[uint]*sync.Mutex),
	}
}

// Lock acquires the participant's mutex and returns the unlock func.
func (k *KeyedMutex) Lock(participantID uint) func() {
	k.mu.Lock()
	l, ok := k.locks[participantID]
	if !ok {
		l = &sync.Mutex{}
		k.locks[participantID] = l
	}
	k.mu.Unlock()

	l.Lock()

	return l.Unlock
}
