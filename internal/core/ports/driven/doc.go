// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for ingestion and retrieval to function:
//
//   - TextExtractor / ExtractorRegistry: Produce per-page text from a file
//   - PostProcessor / PostProcessorPipeline: Turn page text into hashed chunks
//   - Classifier: Zero-shot classification into the configured categories
//   - CollectionBackend: Persistent, searchable collections of records
//   - EmbeddingService: Vectors used by collection backends for similarity
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Summarizer: Only needed when ingestion runs with summarisation.
//   - LLMService: Without it, ingestion still works but questions cannot be answered.
//   - PromptStore: Without it, built-in prompt text is used.
//   - FileWatcher: Only needed by the watch command.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, extractor, or postprocessor package
package driven
