// Package chainvault provides a thread-safe, append-only sequence with
// a snapshot-style, lock-free iterator.
//
// Container is the public type: producers call Append concurrently,
// and consumers call Iter to obtain an Iterator pinned to the chain
// generation that existed at the moment of the call. Clear, Swap and
// Empty never affect an already-created Iterator; it continues to
// observe the generation it pinned until exhausted. Further Append
// calls to that same generation do reach an Iterator that was created
// non-empty and is not yet exhausted (see Iterator).
//
// # Single goroutine
//
//	c := chainvault.Of(0, 1, 2)
//	fmt.Println(c.Len()) // 3
//
//	it := c.Iter()
//	for v, ok := it.Next(); ok; v, ok = it.Next() {
//		fmt.Println(v)
//	}
//
//	c.Clear()
//	fmt.Println(c.Len())    // 0
//	fmt.Println(it.Len())   // 3 -- the pre-clear snapshot is unaffected
//
// # Multiple producers, multiple consumers
//
//	c := chainvault.New[int]()
//	var wg sync.WaitGroup
//	for p := 0; p < producers; p++ {
//		wg.Add(1)
//		go func() {
//			defer wg.Done()
//			for i := 0; i < perProducer; i++ {
//				c.Append(i)
//			}
//		}()
//	}
//	wg.Wait()
//	fmt.Println(c.Len()) // producers * perProducer
package chainvault
